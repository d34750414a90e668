package assistant

import (
	"fmt"
	"strings"
)

// Fixed reply phrases. These are part of the product's voice and are matched
// verbatim by clients, so they must not be reworded.
const (
	// OpeningPhrase starts every generated answer.
	OpeningPhrase = "Terima kasih telah berkonsultasi dengan C-Skin."
	// ClosingPhrase ends every generated answer.
	ClosingPhrase = "Semoga informasi ini bermanfaat, lekas sembuh, dan terima kasih."
	// NoResultsReply is returned when nothing relevant is found.
	NoResultsReply = "Tidak ditemukan informasi yang relevan."
	// GenerationFailedReply is returned when the model call fails.
	GenerationFailedReply = "Terjadi kesalahan saat menghasilkan jawaban. Silakan coba lagi."
	// InternalErrorReply is returned for unexpected pipeline failures.
	InternalErrorReply = "Terjadi kesalahan internal. Silakan coba lagi."
	// WelcomeBackReply greets a returning session whose history was lost.
	WelcomeBackReply = "Selamat datang kembali di C-Skin!"

	// inContextFallback is what the model itself must say when the provided
	// context does not cover the question.
	inContextFallback = "Ini adalah semua informasi yang saya miliki."

	// DefaultTone is the answer register used when none is configured.
	DefaultTone = "professional and friendly"
)

// promptTemplate constrains the model to the retrieved context and the
// product voice. Slots: tone, fallback phrase, opening phrase, closing
// phrase, rendered context, question.
const promptTemplate = `
Anda adalah chatbot kesehatan bernama C-Skin. Silakan jawab setiap pertanyaan pengguna dengan nada: %s.

Petunjuk untuk menjawab pertanyaan terkait penyakit:
- Jawablah hanya menggunakan informasi yang tersedia dalam konteks di bawah.
- Jika pertanyaan berkaitan dengan penyakit, berikan informasi yang akurat, ringkas, dan lengkap berdasarkan konteks.
- Jika tidak ditemukan informasi yang relevan dalam konteks, jangan berspekulasi atau mengarang jawaban. Sebagai gantinya, balas dengan: "%s"
- Hindari penggunaan istilah medis yang rumit atau tidak umum. Gunakan bahasa yang sederhana dan mudah dipahami oleh masyarakat umum.
- Selalu awali jawaban Anda dengan: "%s"
- Selalu akhiri jawaban Anda dengan: "%s"
- Jangan gunakan pengetahuan di luar konteks yang diberikan.
- Jangan menyebutkan bahwa Anda terbatas oleh konteks — cukup berikan jawaban sesuai informasi yang tersedia.
- Anda tidak boleh menyimpulkan atau menambahkan fakta yang tidak disebutkan secara eksplisit dalam konteks. Hanya merangkum atau mengungkapkan ulang apa yang memang ada.

Gunakan hanya konteks berikut untuk menjawab pertanyaan pengguna:
%s

Pertanyaan Pengguna:
%s

Jawab hanya dalam Bahasa Indonesia.
`

// renderContext joins rendered records into numbered blocks.
func renderContext(docs []string) string {
	blocks := make([]string, len(docs))
	for i, doc := range docs {
		blocks[i] = fmt.Sprintf("Doc %d:\n%s", i+1, strings.TrimSpace(doc))
	}
	return strings.Join(blocks, "\n\n")
}

// renderPrompt fills the template with the tone, context blocks, and question.
func renderPrompt(tone string, docs []string, question string) string {
	return fmt.Sprintf(promptTemplate,
		tone,
		inContextFallback,
		OpeningPhrase,
		ClosingPhrase,
		renderContext(docs),
		question,
	)
}

// renderPromptFixed returns the prompt with an empty context slot, used to
// estimate the untrimmable part of the token budget.
func renderPromptFixed(tone, question string) string {
	return renderPrompt(tone, nil, question)
}
