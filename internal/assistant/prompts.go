package assistant

import "fmt"

// Prompt builders for the canvas features. Each truncates its input to
// keep token usage down; the limits match the original client.

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

// Summarize asks for a short summary of note content.
func Summarize(content string) string {
	return fmt.Sprintf("Provide a concise, insightful summary (2-3 sentences) that captures the key points and main ideas:\n\n%s",
		truncate(content, 2000))
}

// RelatedIdeas asks for follow-up topics and connections.
func RelatedIdeas(content string) string {
	return fmt.Sprintf("Analyze this content and suggest 5-7 related ideas, connections, or follow-up topics. Format as a numbered list with brief descriptions:\n\n%s",
		truncate(content, 1000))
}

// ExtractTasks asks the model to pull actionable tasks out as checkbox lines.
func ExtractTasks(content string) string {
	return fmt.Sprintf("Extract all actionable tasks from this content. Format as markdown checkboxes with \"- [ ]\" and include any deadlines or priorities mentioned:\n\n%s",
		truncate(content, 1500))
}

// GenerateTitle asks for a 4-8 word title.
func GenerateTitle(content string) string {
	return fmt.Sprintf("Generate a compelling, descriptive title (4-8 words) that accurately represents this content:\n\n%s",
		truncate(content, 500))
}

// Expand asks for a structured elaboration of an idea.
func Expand(content string) string {
	return fmt.Sprintf("Expand on this idea with detailed explanations, examples, and actionable insights. Structure with clear paragraphs:\n\n%s",
		truncate(content, 1000))
}

// Suggest asks for the single most valuable next step.
func Suggest(context string) string {
	return fmt.Sprintf("Based on this content, suggest the most valuable next step or action. Be specific and actionable:\n\n%s",
		truncate(context, 800))
}

// FindConnections asks how a set of notes relate.
func FindConnections(notes string) string {
	return fmt.Sprintf("Analyze these notes and identify connections, relationships, or themes between them. Suggest how they could be linked or organized:\n\n%s",
		truncate(notes, 2000))
}

// GenerateQuestions asks for exploration questions on a topic.
func GenerateQuestions(content string) string {
	return fmt.Sprintf("Generate 5-7 thought-provoking questions that would help explore and deepen understanding of this topic:\n\n%s",
		truncate(content, 1000))
}

// ExtractInsights asks for key takeaways as a bulleted list.
func ExtractInsights(content string) string {
	return fmt.Sprintf("Identify the key insights, patterns, or important takeaways from this content. Format as a bulleted list:\n\n%s",
		truncate(content, 2000))
}

// ConnectionInsight asks why two just-connected notes might be related.
func ConnectionInsight(sourceText, targetText string) string {
	return fmt.Sprintf("These two notes were just connected:\n\nNote 1: %s\n\nNote 2: %s\n\nSuggest why they might be related (one sentence).",
		truncate(sourceText, 200), truncate(targetText, 200))
}
