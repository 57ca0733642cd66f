package genai

import "fmt"

// Prompt templates for the text-generation endpoints. All prompts request
// Simplified Chinese output because that is the product's writing language;
// structured prompts additionally pin the JSON response contract.

// outlinePrompt asks for a structured outline as a JSON array of
// {title, content} objects.
func outlinePrompt(title, overview string) string {
	return fmt.Sprintf(`Create a structured thesis outline for the topic: %q. Overview: %s.
Return a JSON array where each object has "title" (the section header) and "content" (a brief overview of that section, approx 50 words).
Ensure all content is in Simplified Chinese.
Do not use Markdown formatting in the response, just raw JSON.`, title, overview)
}

// regeneratePrompt asks for a rewrite of one section according to the user's
// instruction. The response is plain text, not JSON.
func regeneratePrompt(currentContent, instruction string) string {
	return fmt.Sprintf(`Rewrite the following thesis section content based on the user's instruction.

Original Content: %q

Instruction: %q

Provide only the rewritten text in Simplified Chinese.`, currentContent, instruction)
}

// refinementPrompt asks for advisor-style critique as a JSON array of
// {text, comment} objects.
func refinementPrompt(fullText string) string {
	return fmt.Sprintf(`Act as a thesis advisor. Review the following text and provide 3 specific suggestions for improvement (e.g., missing citations, weak theoretical grounding).
Return a JSON array where each object has "text" (the specific sentence or phrase to highlight) and "comment" (your suggestion).
Ensure all comments are in Simplified Chinese.

Text to review: %q`, fullText)
}
