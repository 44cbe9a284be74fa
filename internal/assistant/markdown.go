package assistant

import "regexp"

var (
	mdBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	mdHeading = regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`)
	mdLink    = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	mdStrike  = regexp.MustCompile(`~~(.+?)~~`)
)

// MarkdownToSlack rewrites common Markdown into Slack mrkdwn.
func MarkdownToSlack(s string) string {
	s = mdBold.ReplaceAllString(s, "*$1*")
	s = mdHeading.ReplaceAllString(s, "*$1*")
	s = mdLink.ReplaceAllString(s, "<$2|$1>")
	s = mdStrike.ReplaceAllString(s, "~$1~")
	return s
}
