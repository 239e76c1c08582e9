package model

import "testing"

func TestFetchResult(t *testing.T) {
	t.Parallel()

	t.Run("title result", func(t *testing.T) {
		t.Parallel()

		r := TitleResult("Example Domain")
		if r.Kind() != FetchTitle {
			t.Fatalf("expected FetchTitle, got %v", r.Kind())
		}
		title, ok := r.Title()
		if !ok || title != "Example Domain" {
			t.Errorf("Title() = %q, %v", title, ok)
		}
		if _, failed := r.Reason(); failed {
			t.Error("title result must not report a failure reason")
		}
	})

	t.Run("empty title collapses to empty result", func(t *testing.T) {
		t.Parallel()

		if got := TitleResult("").Kind(); got != FetchEmpty {
			t.Errorf("expected FetchEmpty, got %v", got)
		}
	})

	t.Run("failed result carries reason", func(t *testing.T) {
		t.Parallel()

		r := FailedResult(ParseError)
		reason, ok := r.Reason()
		if !ok || reason != ParseError {
			t.Errorf("Reason() = %v, %v", reason, ok)
		}
		if _, ok := r.Title(); ok {
			t.Error("failed result must not report a title")
		}
	})

	t.Run("description", func(t *testing.T) {
		t.Parallel()

		if got := TitleResult("T").WithDescription("about").Description(); got != "about" {
			t.Errorf("Description() = %q, want about", got)
		}
		if got := FailedResult(NetworkError).WithDescription("about").Description(); got != "" {
			t.Errorf("failed result Description() = %q, want empty", got)
		}
	})
}

func TestKindStrings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"network error", NetworkError.String(), "network_error"},
		{"parse error", ParseError.String(), "parse_error"},
		{"unknown error kind", FetchErrorKind(99).String(), "unknown"},
		{"title", FetchTitle.String(), "title"},
		{"empty", FetchEmpty.String(), "empty"},
		{"failed", FetchFailed.String(), "failed"},
		{"display none", DisplayNone.String(), "none"},
		{"display pending", DisplayPending.String(), "pending"},
		{"display result", DisplayResult.String(), "result"},
		{"scan denied", ScanPermissionDenied.String(), "permission_denied"},
		{"scan cancelled", ScanUserCancelled.String(), "user_cancelled"},
		{"scan invalid", ScanInvalidPayload.String(), "invalid_payload"},
		{"scan succeeded", ScanSucceeded.String(), "scanned"},
		{"permission unknown", PermissionUnknown.String(), "unknown"},
		{"permission granted", PermissionGranted.String(), "granted"},
		{"permission denied", PermissionDenied.String(), "denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestDisplayStatus(t *testing.T) {
	t.Parallel()

	if NoStatus().Kind() != DisplayNone {
		t.Error("expected NoStatus to be DisplayNone")
	}
	if !PendingStatus().IsPending() {
		t.Error("expected PendingStatus to be pending")
	}
	if _, ok := PendingStatus().Result(); ok {
		t.Error("pending status must not carry a result")
	}

	status := ResultStatus(EmptyResult())
	result, ok := status.Result()
	if !ok || result.Kind() != FetchEmpty {
		t.Errorf("Result() = %v, %v", result.Kind(), ok)
	}
}
