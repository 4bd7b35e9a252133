package docimport

import (
	"strings"
	"testing"

	"github.com/abhisek/penilai/internal/rubric"
)

const htmlPlan = `<!DOCTYPE html>
<html><head><title>Modul</title><script>alert(1)</script></head>
<body>
<h2>RUBRIK PENILAIAN</h2>
<table>
<thead><tr><th>Aspek</th><th>Sangat Baik</th><th>Baik</th><th>Cukup</th><th>Perlu Bimbingan</th></tr></thead>
<tbody>
<tr><td><b>Pemahaman konsep</b></td><td>Tepat</td><td>Hampir tepat</td><td>Sebagian</td><td>Belum</td></tr>
<tr><td>Komunikasi</td><td>Runtut</td><td>Cukup runtut</td><td>Kurang</td><td>Tidak runtut</td></tr>
</tbody>
</table>
</body></html>`

func TestImportHTMLTablesBecomeRows(t *testing.T) {
	im := NewImporter()
	md, err := im.ImportString(htmlPlan, FormatHTML)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if strings.Contains(md, "alert") || strings.Contains(md, "<script") {
		t.Errorf("script survived sanitizing:\n%s", md)
	}
	if !strings.Contains(md, "|") {
		t.Fatalf("expected pipe table rows:\n%s", md)
	}

	r := rubric.DefaultParser().Parse(md)
	if r.Scheme != rubric.SchemeRubric {
		t.Errorf("scheme = %q", r.Scheme)
	}
	if len(r.Criteria) != 2 || r.Criteria[0].Aspect != "Pemahaman konsep" {
		t.Fatalf("unexpected criteria: %+v", r.Criteria)
	}
}

func TestImportMarkdownPassesThrough(t *testing.T) {
	in := "| Aspek | 4 |\n|---|---|\n| Sikap | Baik |\n"
	md, err := NewImporter().ImportString(in, FormatMarkdown)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if md != in {
		t.Errorf("markdown changed: %q", md)
	}
}

func TestImportDetectsFormat(t *testing.T) {
	md, err := NewImporter().ImportString("  <p>Halo <i>dunia</i></p>", "")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if strings.Contains(md, "<p>") {
		t.Errorf("expected html to be converted, got %q", md)
	}
}

func TestImportTooLarge(t *testing.T) {
	big := strings.Repeat("a", MaxSize+1)
	if _, err := NewImporter().ImportString(big, FormatMarkdown); err == nil {
		t.Fatal("expected size error")
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Format
	}{
		{"modul.html", "", FormatHTML},
		{"MODUL.HTM", "", FormatHTML},
		{"modul.md", "<p>x</p>", FormatMarkdown},
		{"", "\uFEFF<html>", FormatHTML},
		{"", "# Judul", FormatMarkdown},
		{"catatan", "", FormatMarkdown},
	}
	for _, tt := range tests {
		if got := DetectFormat(tt.name, []byte(tt.content)); got != tt.want {
			t.Errorf("DetectFormat(%q, %q) = %q, want %q", tt.name, tt.content, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", "", false},
		{"auto", "", false},
		{"MD", FormatMarkdown, false},
		{"html", FormatHTML, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestTitle(t *testing.T) {
	md := "Intro\n\n## MODUL AJAR IPA Kelas 5\n\n# Later\n"
	if got := Title(md, "plan.md"); got != "MODUL AJAR IPA Kelas 5" {
		t.Errorf("Title = %q", got)
	}
	if got := Title("no headings\n#\n", "plan.md"); got != "plan.md" {
		t.Errorf("Title fallback = %q", got)
	}
}
