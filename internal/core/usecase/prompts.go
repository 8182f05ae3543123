package usecase

import (
	"fmt"
	"strings"

	"github.com/kirillkom/docqa/internal/core/domain"
)

const relevanceSystemPrompt = `You are a grader assessing relevance of retrieved document snippets to a user question.

Criteria:
1. If the snippets contain keywords or concepts related to the user question, grade them as relevant.
2. If the snippets are completely unrelated, grade them as irrelevant.
3. Be lenient - if they might help answer the question, mark them relevant.

Output format:
Return only "yes" or "no". "yes" means relevant, "no" means irrelevant.`

const groundednessSystemPrompt = `You are a strict grader assessing whether an AI-generated answer is grounded in / supported by a set of retrieved facts.

Criteria:
1. The answer must ONLY contain information present in the context.
2. If the answer mentions facts not in the context, it is a hallucination (unless it's general knowledge used for flow).
3. Pay close attention to numbers, dates, names.

Output format:
Return "yes" if the answer is fully grounded/supported.
Return "no" if the answer contains hallucinations or unsupported claims.`

const answerSystemPrompt = `You are an AI assistant answering questions about a document corpus on behalf of its owners.

Guidelines:
- Provide concise, factual answers grounded in the provided context
- If the information is not in the context, clearly state that you don't have enough information
- Cite specific sources when possible (e.g., "According to the Q4 report...")
- Use clear, professional language
- Think step-by-step before answering to ensure logical consistency`

const researchPlanSystemPrompt = `You are a Senior Research Architect. Your goal is to break down a user question into specific, searchable web queries to find missing information.

Guidelines:
1. Generate 3 distinct, high-quality search queries.
2. Focus on factual data, recent events, or specific metrics.
3. Queries should be optimized for search engines (keyword-heavy, specific).
4. Return ONLY the list of queries, one per line. No numbering or bullets.`

const researchSynthesisSystemPrompt = `You are a Strategic Research Analyst. You have been provided with raw web search results to answer a user's question.

Guidelines:
1. Synthesize a comprehensive answer based ONLY on the provided Context.
2. CITATION RULE: You must cite your sources. Use [Web 1], [Web 2] format at the end of sentences.
3. If conflicts exist between sources, note them.
4. Organize the answer logically with clear headings.
5. If the context is insufficient, state what is missing.
6. Professional, objective tone.`

func buildRelevancePrompt(question, preview string) string {
	return fmt.Sprintf(`Retrieved document snippets:
%s

User Question: %s

Are these snippets relevant to the question? (yes/no)`, preview, question)
}

func buildGroundednessPrompt(answer, context string) string {
	return fmt.Sprintf(`Context:
%s

Answer:
%s

Is the answer grounded in the context? (yes/no):`, context, answer)
}

func buildAnswerPrompt(question string, evidence []domain.EvidenceChunk) string {
	return fmt.Sprintf(`Context from the document corpus:
%s

Question: %s

Please provide a concise, factual answer based on the context above. If the information is not available in the context, clearly state that.`, formatEvidenceContext(evidence), question)
}

func buildResearchPlanPrompt(question string) string {
	return fmt.Sprintf("User Question: %s\n\nGenerate 3 search queries:", question)
}

func buildResearchSynthesisPrompt(question, webContext string) string {
	return fmt.Sprintf(`User Question: %s

Web Search Context:
%s

Please provide a detailed report answering the question.`, question, webContext)
}

// formatEvidenceContext renders numbered context blocks the generation and
// verification prompts share.
func formatEvidenceContext(evidence []domain.EvidenceChunk) string {
	if len(evidence) == 0 {
		return "No relevant information found."
	}

	var b strings.Builder
	for i, chunk := range evidence {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d] From %s (%s):\n%s", i+1, chunk.Source.DocumentID, chunk.Source.Locator, chunk.Content)
	}
	return b.String()
}

func formatWebContext(results []domain.WebResult) string {
	if len(results) == 0 {
		return "No web search results found."
	}

	var b strings.Builder
	for i, res := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		queryInfo := ""
		if res.Query != "" {
			queryInfo = fmt.Sprintf(" [Query: %s]", res.Query)
		}
		fmt.Fprintf(&b, "[Web %d]%s %s\nURL: %s\nSnippet: %s\n", i+1, queryInfo, res.Title, res.URL, res.Snippet)
	}
	return b.String()
}
