// Package segment locates the ordered user/assistant message fragments
// inside the main HTML document of a chat snapshot.
//
// Different source sites embed messages differently, so three strategies
// are tried in order: dedicated marker tags, a balanced-tag positional scan
// for class-marked containers that ordinary parsing cannot isolate, and a
// generic role-attribute fallback.
package segment

import (
	"regexp"
	"sort"
	"strings"
)

// Role tags a fragment as a user question or a model answer.
type Role int

const (
	RoleUser Role = iota
	RoleModel
)

func (r Role) String() string {
	if r == RoleUser {
		return "user"
	}
	return "model"
}

// Fragment is one message's HTML slice, tagged with its role and its start
// offset in the source document. The offset is used only for ordering.
type Fragment struct {
	Role   Role
	Offset int
	HTML   string
}

// Strategy identifies which extraction strategy produced the fragments.
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyGenericMarker
	StrategyBalancedScan
	StrategyAttributeMarker
)

func (s Strategy) String() string {
	switch s {
	case StrategyGenericMarker:
		return "generic-marker"
	case StrategyBalancedScan:
		return "balanced-scan"
	case StrategyAttributeMarker:
		return "attribute-marker"
	default:
		return "none"
	}
}

var (
	userQueryRe      = regexp.MustCompile(`(?is)<user-query[^>]*>(.*?)</user-query>`)
	messageContentRe = regexp.MustCompile(`(?is)<message-content[^>]*>(.*?)</message-content>`)
	roleAttrRe       = regexp.MustCompile(`(?i)<div[^>]*data-message-author-role="(user|assistant)"[^>]*>`)
)

// Markers used by the balanced-scan layout: the container class token marks
// a message block, the role class token marks it as the user's.
const (
	balancedNeedle     = `<div dir="ltr" class="`
	balancedBlockToken = "r-imh66m"
	balancedUserToken  = "r-1kt6imw"
	balancedOpenTag    = "<div"
	balancedCloseTag   = "</div>"
)

// Scan extracts the ordered message fragments from an HTML document and
// reports which strategy matched. An empty slice with StrategyNone means no
// known layout was recognized.
func Scan(html string) ([]Fragment, Strategy) {
	if frags := scanMarkerTags(html); len(frags) > 0 {
		return frags, StrategyGenericMarker
	}
	if frags := scanBalanced(html); len(frags) > 0 {
		return frags, StrategyBalancedScan
	}
	if frags := scanRoleAttributes(html); len(frags) > 0 {
		return frags, StrategyAttributeMarker
	}
	return nil, StrategyNone
}

// scanMarkerTags collects <user-query> and <message-content> elements,
// which some exports use as dedicated per-role containers, and merges both
// lists by document position.
func scanMarkerTags(html string) []Fragment {
	var frags []Fragment
	for _, m := range userQueryRe.FindAllStringSubmatchIndex(html, -1) {
		frags = append(frags, Fragment{
			Role:   RoleUser,
			Offset: m[0],
			HTML:   html[m[2]:m[3]],
		})
	}
	for _, m := range messageContentRe.FindAllStringSubmatchIndex(html, -1) {
		frags = append(frags, Fragment{
			Role:   RoleModel,
			Offset: m[0],
			HTML:   html[m[2]:m[3]],
		})
	}
	sortByOffset(frags)
	return frags
}

// scanBalanced finds message containers by their class token and determines
// each one's extent with a string-level depth count over <div>/</div>
// occurrences. The containers nest arbitrarily deep same-named children, so
// searching for the next closing tag would truncate the fragment early.
func scanBalanced(html string) []Fragment {
	var frags []Fragment
	pos := 0

	for {
		i := strings.Index(html[pos:], balancedNeedle)
		if i == -1 {
			break
		}
		i += pos

		attrEnd := strings.Index(html[i:], `">`)
		if attrEnd == -1 {
			break
		}
		attrEnd += i

		classAttr := html[i+len(balancedNeedle) : attrEnd]
		if !strings.Contains(classAttr, balancedBlockToken) {
			pos = i + 1
			continue
		}

		start := attrEnd + 2
		end, balanced := matchBalanced(html, start)

		fragment := html[start:end]
		if balanced {
			fragment = html[start : end-len(balancedCloseTag)]
		}

		role := RoleModel
		if strings.Contains(classAttr, balancedUserToken) {
			role = RoleUser
		}
		frags = append(frags, Fragment{Role: role, Offset: i, HTML: fragment})
		pos = end
	}
	return frags
}

// matchBalanced scans forward from start with depth 1, incrementing on each
// opening occurrence and decrementing on each closing occurrence of the
// container tag, until the depth returns to zero. It returns the position
// just past the matched closing tag, or the document end when the markup
// never closes.
func matchBalanced(html string, start int) (end int, balanced bool) {
	depth := 1
	k := start
	for depth > 0 {
		nextOpen := strings.Index(html[k:], balancedOpenTag)
		nextClose := strings.Index(html[k:], balancedCloseTag)
		if nextClose == -1 {
			return len(html), false
		}
		if nextOpen != -1 && nextOpen < nextClose {
			depth++
			k += nextOpen + len(balancedOpenTag)
		} else {
			depth--
			k += nextClose + len(balancedCloseTag)
		}
	}
	return k, true
}

// scanRoleAttributes is the generic fallback: each fragment spans from one
// data-message-author-role marker to the next (or the end of the document).
func scanRoleAttributes(html string) []Fragment {
	matches := roleAttrRe.FindAllStringSubmatchIndex(html, -1)
	var frags []Fragment
	for i, m := range matches {
		start := m[0]
		end := len(html)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		role := RoleModel
		if strings.EqualFold(html[m[2]:m[3]], "user") {
			role = RoleUser
		}
		frags = append(frags, Fragment{Role: role, Offset: start, HTML: html[start:end]})
	}
	return frags
}

func sortByOffset(frags []Fragment) {
	sort.SliceStable(frags, func(i, j int) bool {
		return frags[i].Offset < frags[j].Offset
	})
}
