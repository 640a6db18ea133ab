package chat

import (
	"fmt"
	"strings"

	"KisanGPT/app/rag"
	"KisanGPT/app/storage"
)

var languages = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"te": "Telugu",
	"ta": "Tamil",
	"mr": "Marathi",
}

// LanguageName maps a language code to the name used in the prompt.
// Unknown codes fall back to English.
func LanguageName(code string) string {
	if name, ok := languages[strings.ToLower(strings.TrimSpace(code))]; ok {
		return name
	}
	return "English"
}

const promptTemplate = `You are *KisanGPT*, an expert agricultural advisor for Indian farmers.

CONTEXT INFORMATION:
%s

USER QUERY: %s

INSTRUCTIONS:
1. Answer primarily using the CONTEXT provided above.
2. If [FERTILIZER DATABASE] is present, use those exact numbers.
3. **IMPORTANT: Provide the answer entirely in %s.**
4. Translate technical terms where appropriate, but keep N-P-K numbers in English digits (e.g., 120 kg).
5. Keep the tone simple and helpful for a farmer.
`

// BuildPrompt is a pure function of its inputs. The same arguments always
// produce the same prompt.
func BuildPrompt(query string, hits []rag.ScoredHit, fert *storage.FertilizerRecord, language string) string {
	var sb strings.Builder

	if fert != nil {
		sb.WriteString("[FERTILIZER DATABASE]\n")
		fmt.Fprintf(&sb, "Crop: %s\n", fert.CropName)
		fmt.Fprintf(&sb, "Rec. Dosage: N=%d kg/ha, P=%d kg/ha, K=%d kg/ha\n\n", fert.N, fert.P, fert.K)
	}

	sb.WriteString("[KNOWLEDGE BASE]\n")
	for i, h := range hits {
		fmt.Fprintf(&sb, "Source %d: %s\nContent: %s\n\n", i+1, h.Payload.SourceOr("Unknown"), h.Payload.Text)
	}

	return fmt.Sprintf(promptTemplate, sb.String(), query, LanguageName(language))
}
