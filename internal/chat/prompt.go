package chat

import (
	"fmt"
	"strings"
)

func systemPrompt() string {
	return "You are InsureAssist, a specialized insurance AI assistant.\n" +
		"Rules:\n" +
		"1) You must ground policy-specific answers ONLY on POLICY_DATA.\n" +
		"2) Never fabricate policy numbers, coverage limits, premiums, dates, exclusions, or claim outcomes.\n" +
		"3) Use RAG_CONTEXT only for general insurance explanations and guidance.\n" +
		"4) If information is missing, explicitly say it is unavailable and ask for the exact required detail.\n" +
		"5) Keep tone professional, concise, and customer-friendly.\n" +
		"6) If policy is expired, explain that renewal is needed before fresh claims can be processed."
}

func buildUserPrompt(userMessage, policyContext string, ragChunks []string) string {
	ragContext := "No additional knowledge context found."
	if len(ragChunks) > 0 {
		ragContext = strings.Join(ragChunks, "\n\n")
	}
	return fmt.Sprintf(
		"USER_QUERY:\n%s\n\nPOLICY_DATA:\n%s\n\nRAG_CONTEXT (top 3 chunks):\n%s\n\n"+
			"Generate an accurate response grounded in the above data.",
		userMessage, policyContext, ragContext,
	)
}
