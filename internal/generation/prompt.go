package generation

import (
	"fmt"
	"strings"
)

const (
	MinScore = 1
	MaxScore = 10

	TweetMin    = 120
	TweetMax    = 140
	LinkedInMin = 400
	LinkedInMax = 500

	// BannedWord never appears in generated copy.
	BannedWord = "delve"
)

const systemPrompt = `You're Mike Wazowsky, a social media assistant for a YouTube channel aimed at software engineers.
The channel covers technology, programming and AI, and every video tries to educate and entertain at the same time.
You receive the transcript of a new video. Write content that makes people want to watch it.

Rules:
- Base everything on the transcript. Do not invent facts.
- Keep the tone friendly and confident. Use at most 2 emojis per sentence.
- Do not use hashtags.
- Never use the word "%[5]s".
- The tweet must be at least %[1]d and at most %[2]d characters long. End it with a question or a call to action.
- The LinkedIn post must be at least %[3]d and at most %[4]d characters long.
- The quote must be a sentence taken verbatim from the transcript that represents the video well.
%[6]s
Once you're done, assess the quality of your own work with a score from %[7]d to %[8]d and list concrete improvements that would raise it. Leave the list empty when nothing needs to change.

Respond with a single JSON object and nothing else, shaped exactly like this:
{"quote": "string", "tweet": "string", "linkedin": "string", "score": integer, "improvements": ["string"]}`

// SystemPrompt builds the instruction message, emphasizing keyPoint when set.
func SystemPrompt(keyPoint string) string {
	emphasis := ""
	if kp := strings.TrimSpace(keyPoint); kp != "" {
		emphasis = fmt.Sprintf("- Make sure every piece of content highlights this key point: %s\n", kp)
	}
	return fmt.Sprintf(systemPrompt,
		TweetMin, TweetMax, LinkedInMin, LinkedInMax, BannedWord, emphasis, MinScore, MaxScore)
}

// RevisionPrompt lists the model's own improvements followed by the rules it most
// often breaks.
func RevisionPrompt(improvements []string) string {
	var b strings.Builder
	b.WriteString("Rewrite the content applying these improvements:\n")
	for _, imp := range improvements {
		fmt.Fprintf(&b, "- %s\n", imp)
	}
	b.WriteString("- Do not use hashtags.\n")
	fmt.Fprintf(&b, "- The LinkedIn post must be between %d and %d characters long.\n", LinkedInMin, LinkedInMax)
	fmt.Fprintf(&b, "- The tweet must be at least %d characters long.\n", TweetMin)
	fmt.Fprintf(&b, "- Do not use the word %q.", BannedWord)
	return b.String()
}
