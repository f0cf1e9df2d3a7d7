package history

import (
	"strings"
	"testing"

	sessiondto "pomodoro/internal/modules/session/dto"
)

func TestRenderListsDaysInGivenOrder(t *testing.T) {
	t.Parallel()
	groups := []sessiondto.DateGroupOutput{
		{Date: "Wed Mar 04 2026", Sessions: []sessiondto.SessionOutput{
			{SessionType: "focus", TypeName: "Focus", Time: "10:30", Duration: "25m", WasCompleted: false, FocusMinutes: 12},
		}},
		{Date: "Tue Mar 03 2026", Sessions: []sessiondto.SessionOutput{
			{SessionType: "short_break", TypeName: "Short Break", Time: "09:00", Duration: "5m", WasCompleted: true},
		}},
	}

	out := Render(groups)
	newer := strings.Index(out, "Wed Mar 04 2026")
	older := strings.Index(out, "Tue Mar 03 2026")
	if newer < 0 || older < 0 || newer > older {
		t.Fatalf("expected newest day first:\n%s", out)
	}
	if !strings.Contains(out, "(12m focused)") {
		t.Fatalf("expected partial focus time on the stopped session:\n%s", out)
	}
	if strings.Count(out, "focused") != 1 {
		t.Fatalf("only stopped focus sessions show focus time:\n%s", out)
	}
}

func TestRenderEmpty(t *testing.T) {
	t.Parallel()
	if out := Render(nil); !strings.Contains(out, "No sessions yet") {
		t.Fatalf("unexpected empty render %q", out)
	}
}
