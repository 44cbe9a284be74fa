package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	base := stderrors.New("portal unreachable")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", base, "Error: portal unreachable"},
		{"wrapped", fmt.Errorf("fetch: %w", base), "Error: fetch: portal unreachable"},
		{"hint", WithHint(base, "run 'mr setup'"), "Error: portal unreachable\n  hint: run 'mr setup'"},
		{"wrapped hint", fmt.Errorf("login: %w", WithHint(base, "check GW_USER_ID")), "Error: login: portal unreachable\n  hint: check GW_USER_ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.err); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWithHint_Unwrap(t *testing.T) {
	base := stderrors.New("boom")
	if WithHint(nil, "x") != nil {
		t.Error("WithHint(nil) should be nil")
	}
	if !stderrors.Is(WithHint(base, "x"), base) {
		t.Error("hinted error should unwrap to base")
	}
}
