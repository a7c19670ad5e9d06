package assistant

import "strings"

type pageActions struct {
	path    string
	actions []QuickAction
}

// pageActionTable is matched by path substring in order.
var pageActionTable = []pageActions{
	{
		path: "/dashboard",
		actions: []QuickAction{
			{Label: "What are my best grants?", Action: "query:best grants"},
			{Label: "Show me deadlines", Action: "query:upcoming deadlines"},
			{Label: "Find partners", Action: "query:business partners"},
		},
	},
	{
		path: "/funding",
		actions: []QuickAction{
			{Label: "Explain match percentages", Action: "query:how are matches calculated"},
			{Label: "What grants close soon?", Action: "query:deadlines"},
			{Label: "How do I apply?", Action: "query:how to apply for grants"},
		},
	},
	{
		path: "/forum",
		actions: []QuickAction{
			{Label: "Help me write a post", Action: "/forum/new"},
			{Label: "Find discussions", Action: "query:relevant forum threads"},
			{Label: "Who can I collaborate with?", Action: "query:partnerships"},
		},
	},
	{
		path: "/matchmaker",
		actions: []QuickAction{
			{Label: "Why was this matched?", Action: "query:match explanation"},
			{Label: "How to connect?", Action: "query:how to reach partners"},
			{Label: "Find suppliers", Action: "query:supplier partnerships"},
		},
	},
	{
		path: "/talent",
		actions: []QuickAction{
			{Label: "Post a job listing", Action: "/talent"},
			{Label: "Find developers", Action: "query:hiring developers"},
			{Label: "Hiring best practices", Action: "query:hiring advice"},
		},
	},
}

var defaultPageActions = []QuickAction{
	{Label: "Find grants", Action: "query:grants"},
	{Label: "Get help", Action: "query:help"},
	{Label: "Browse forum", Action: "/forum"},
}

// PageActions returns the quick actions suggested for a page path.
func PageActions(page string) []QuickAction {
	for _, p := range pageActionTable {
		if strings.Contains(page, p.path) {
			return cloneActions(p.actions)
		}
	}
	return cloneActions(defaultPageActions)
}

func cloneActions(actions []QuickAction) []QuickAction {
	out := make([]QuickAction, len(actions))
	copy(out, actions)
	return out
}
