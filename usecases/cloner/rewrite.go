package cloner

import (
	"fmt"
	"strings"
)

// rewriteContent retargets channel mentions, role mentions and deep message
// links from source ids to their destination counterparts. Mentions of
// entities that were never mapped are left untouched, which renders as a
// dead mention rather than a wrong one.
func (u *ClonerUseCase) rewriteContent(content string) string {
	if content == "" {
		return ""
	}

	for sourceID, ref := range u.mappings.ChannelPairs() {
		content = strings.ReplaceAll(content,
			fmt.Sprintf("https://discord.com/channels/%s/%s", u.source.ID, sourceID),
			fmt.Sprintf("https://discord.com/channels/%s/%s", u.dest.ID, ref.ID))
		content = strings.ReplaceAll(content, "<#"+sourceID+">", "<#"+ref.ID+">")
	}
	for sourceID, ref := range u.mappings.RolePairs() {
		content = strings.ReplaceAll(content, "<@&"+sourceID+">", "<@&"+ref.ID+">")
	}
	return content
}
