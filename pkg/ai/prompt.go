package ai

import "strings"

const (
	PROMPT_VAR_LANG    = "${lang}"
	PROMPT_VAR_CONTEXT = "${context}"
	PROMPT_VAR_HISTORY = "${history}"
	PROMPT_VAR_CAPTION = "${caption}"
)

// Reply prompt. Kept deliberately small: every token here is spent on every
// paid reply, so no verbose instructions.
const PROMPT_REPLY_DEFAULT_EN = `You are a friendly social media assistant replying to direct messages for this account. Use the context to answer briefly and helpfully. Reply in ${lang}.

Context: ${context}

Conversation so far:
${history}`

// NO_CONTEXT_MARKER stands in for the retrieved fact when the knowledge
// store returned nothing useful.
const NO_CONTEXT_MARKER = `No specific context available. Answer from general knowledge about the account, and keep it short.`

const PROMPT_MEMORY_SUMMARY_EN = `Summarize the following direct-message conversation in 2-3 short sentences, keeping names, dates and open questions. This summary replaces the raw messages as chat context.`

// Fact extraction prompt for the vision model. Compressed JSON only, the
// structured output is what keeps ingestion cheap.
const PROMPT_EXTRACT_FACTS_EN = `Analyze this image and caption. Extract ONLY these facts as JSON:
{"date":"YYYY-MM-DD or Unknown","venue":"Location name or Unknown","topic":"Main subject"}

Caption: ${caption}

Return ONLY the JSON. No explanation.`

func ReplaceVars(prompt string, vars map[string]string) string {
	for k, v := range vars {
		prompt = strings.ReplaceAll(prompt, k, v)
	}
	return prompt
}
