package moderation

import "testing"

func TestShouldBan(t *testing.T) {
	cases := []struct {
		name    string
		verdict Verdict
		want    bool
	}{
		{"safe content", Verdict{Safe: true}, false},
		{"safe bot flag ignored", Verdict{Safe: true, IsBot: true}, false},
		{"unsafe without signal", Verdict{Safe: false, Reason: "contains a phone number"}, false},
		{"unsafe bot", Verdict{Safe: false, IsBot: true}, true},
		{"unsafe scam reason", Verdict{Safe: false, Reason: "Likely a SCAM offer"}, true},
		{"unsafe scam lowercase", Verdict{Safe: false, Reason: "classic scam pattern"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ShouldBan(tc.verdict); got != tc.want {
				t.Fatalf("ShouldBan(%+v) = %v, want %v", tc.verdict, got, tc.want)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"safe":true}`, `{"safe":true}`},
		{"fenced", "```json\n{\"safe\":false}\n```", `{"safe":false}`},
		{"surrounded by prose", `Here you go: {"safe":true} hope that helps`, `{"safe":true}`},
		{"no object", "no json here", "no json here"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractJSON(tc.in); got != tc.want {
				t.Fatalf("ExtractJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
