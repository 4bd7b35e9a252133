package lessonplan

import (
	"fmt"
	"strings"

	"github.com/abhisek/penilai/internal/rubric"
)

const systemPrompt = `Anda adalah guru berpengalaman di Indonesia yang menyusun Modul Ajar Kurikulum Merdeka. Tulis dalam bahasa Indonesia yang baku dan jelas. Semua tabel ditulis sebagai tabel markdown dengan baris pemisah (|---|).`

// buildUserMessage renders the request into the instruction sent to the
// model. The assessment heading is the scheme marker the extractor looks for.
func buildUserMessage(req Request, markers rubric.SchemeMarkers) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Mata Pelajaran: %s\n", req.Subject)
	fmt.Fprintf(&b, "Kelas: %s\n", req.Class)
	if req.Phase != "" {
		fmt.Fprintf(&b, "Fase: %s\n", req.Phase)
	}
	fmt.Fprintf(&b, "Materi Pokok: %s\n", req.Topic)
	if req.Duration != "" {
		fmt.Fprintf(&b, "Alokasi Waktu: %s\n", req.Duration)
	}

	b.WriteString(`
Instruksi:
Susun Modul Ajar lengkap dengan bagian berikut, berurutan:
1. Tabel identitas modul (Satuan Pendidikan, Nama Guru, Mata Pelajaran, Kelas, Semester, Alokasi Waktu).
2. Tujuan pembelajaran.
3. Kegiatan pembelajaran (pendahuluan, inti, penutup).
4. Asesmen.
`)

	b.WriteString("\nBagian asesmen:\n")
	switch req.Scheme {
	case rubric.SchemeRubric:
		fmt.Fprintf(&b, "- Beri judul bagian \"%s\".\n", markers.Rubric)
		b.WriteString("- Buat satu tabel dengan kolom: Aspek | Sangat Baik (4) | Baik (3) | Cukup (2) | Perlu Bimbingan (1).\n")
		b.WriteString("- Setiap baris adalah satu aspek yang dinilai, dengan deskripsi untuk tiap tingkat.\n")
	case rubric.SchemeDescriptiveCriteria:
		fmt.Fprintf(&b, "- Beri judul bagian \"%s\".\n", markers.DescriptiveCriteria)
		b.WriteString("- Buat satu tabel dengan kolom: Kriteria | Deskripsi | Ya/Tidak.\n")
		b.WriteString("- Setiap kriteria dinilai tercapai atau belum tercapai.\n")
	case rubric.SchemeValueInterval:
		fmt.Fprintf(&b, "- Beri judul bagian \"%s\".\n", markers.ValueInterval)
		b.WriteString("- Buat satu tabel dengan kolom: Kriteria | Interval Nilai | Keterangan.\n")
		b.WriteString("- Setiap kriteria dinilai dengan angka 0-100.\n")
	default:
		fmt.Fprintf(&b, "- Tulis kalimat \"%s <nama pendekatan>\" lalu tabel kriteria penilaiannya.\n", markers.Approach)
	}
	b.WriteString("- Jangan mencampur tabel identitas dengan tabel penilaian.\n")

	if notes := strings.TrimSpace(req.Notes); notes != "" {
		fmt.Fprintf(&b, "\nCatatan guru:\n%s\n", notes)
	}
	return b.String()
}
