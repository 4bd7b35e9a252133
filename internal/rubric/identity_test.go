package rubric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityFilter_Rules(t *testing.T) {
	f := NewIdentityFilter(DefaultKeywords())

	tests := []struct {
		name         string
		block        TableBlock
		wantIdentity bool
		wantRule     string
	}{
		{
			name:         "strong keyword alone",
			block:        TableBlock{"| Nama Guru |"},
			wantIdentity: true,
			wantRule:     RuleStrongKeyword,
		},
		{
			name:         "strong keyword beats content keywords",
			block:        TableBlock{"| NIP | 1987 |", "| Kriteria | Skor |"},
			wantIdentity: true,
			wantRule:     RuleStrongKeyword,
		},
		{
			name:         "three weak keywords",
			block:        TableBlock{"| Mata Pelajaran | IPA |", "| Kelas | VII |", "| Semester | 1 |"},
			wantIdentity: true,
			wantRule:     RuleWeakKeywords,
		},
		{
			name:         "three weak keywords short-circuit before content keywords",
			block:        TableBlock{"| Mata Pelajaran | Kelas | Semester | Kriteria |"},
			wantIdentity: true,
			wantRule:     RuleWeakKeywords,
		},
		{
			name:         "two weak keywords with content keyword",
			block:        TableBlock{"| Materi | Kelas |", "| Kriteria | Skor |"},
			wantIdentity: false,
			wantRule:     RuleContentKeywords,
		},
		{
			name:         "interval table",
			block:        TableBlock{"| Interval | Predikat |", "| 86-100 | A |"},
			wantIdentity: false,
			wantRule:     RuleContentKeywords,
		},
		{
			name:         "nothing recognised",
			block:        TableBlock{"| Langkah | Waktu |", "| Pembukaan | 10 menit |"},
			wantIdentity: false,
			wantRule:     RuleDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, rule := f.Decide(tt.block)
			assert.Equal(t, tt.wantIdentity, identity)
			assert.Equal(t, tt.wantRule, rule)
			assert.Equal(t, tt.wantIdentity, f.IsIdentityTable(tt.block))
		})
	}
}

func TestIdentityFilter_NamaGuruAlwaysIdentity(t *testing.T) {
	f := NewIdentityFilter(DefaultKeywords())
	blocks := []TableBlock{
		{"| Nama Guru |"},
		{"| Nama Guru | Bu Sari |", "| Kriteria | Skor | Rentang | Interval |"},
		{"| Aspek | Sangat Baik |", "|---|---|", "| nama guru | x |"},
	}
	for _, b := range blocks {
		assert.True(t, f.IsIdentityTable(b), "block %v", b)
	}
}

func TestIdentityFilter_FilterContentTablesPreservesOrder(t *testing.T) {
	f := NewIdentityFilter(DefaultKeywords())
	a := TableBlock{"| Aspek | Skor |"}
	meta := TableBlock{"| Satuan Pendidikan | SMP 1 |"}
	b := TableBlock{"| Langkah | Waktu |"}

	got := f.FilterContentTables([]TableBlock{a, meta, b})
	assert.Equal(t, []TableBlock{a, b}, got)
	assert.Empty(t, f.FilterContentTables(nil))
}

func TestIdentityFilter_KeywordsAreCaseInsensitive(t *testing.T) {
	kw := DefaultKeywords()
	kw.Strong = []string{"NAMA SEKOLAH"}
	f := NewIdentityFilter(kw)
	assert.True(t, f.IsIdentityTable(TableBlock{"| Nama Sekolah | SMP 1 |"}))
}

func TestIdentityFilter_VocabularyIsCopied(t *testing.T) {
	kw := DefaultKeywords()
	f := NewIdentityFilter(kw)
	kw.Strong[1] = "langkah"
	assert.False(t, f.IsIdentityTable(TableBlock{"| Langkah | Waktu |"}))
}
