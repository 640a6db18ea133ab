package models

import "fmt"

const metadataPrompt = `Analyze this text from an agricultural document and extract metadata in JSON format.
Text: "%s"

Return ONLY valid JSON with these keys:
- "is_state_specific": boolean
- "state": string or null (e.g., "Assam", "Punjab")
- "season": string or null (e.g., "Rabi", "Kharif")
- "topic": string (e.g., "Wheat Advisory", "Pest Control")
`

const judgePrompt = `You are an impartial judge evaluating an AI Agricultural Assistant.
USER QUERY: %s
RETRIEVED CONTEXT: %s...
AI ANSWER: %s

Task 1: Faithfulness (0 or 1). 1 = Answer derived from Context. 0 = Hallucination.
Task 2: Relevance (1 to 5). 5 = Perfect. 1 = Irrelevant.

Return JSON: {"faithfulness": 0 or 1, "relevance": 1, "reason": "short explanation"}
`

// MetadataPrompt expects snippet to be already cut to the classifier budget.
func MetadataPrompt(snippet string) string {
	return fmt.Sprintf(metadataPrompt, snippet)
}

func JudgePrompt(query, context, answer string) string {
	return fmt.Sprintf(judgePrompt, query, context, answer)
}
