package models

import "testing"

// TestWebsiteIsPublished verifies that IsPublished returns true only for
// the "published" status.
func TestWebsiteIsPublished(t *testing.T) {
	tests := []struct {
		name   string
		status WebsiteStatus
		want   bool
	}{
		{name: "published", status: WebsiteStatusPublished, want: true},
		{name: "draft", status: WebsiteStatusDraft, want: false},
		{name: "ready", status: WebsiteStatusReady, want: false},
		{name: "archived", status: WebsiteStatusArchived, want: false},
		{name: "empty status", status: WebsiteStatus(""), want: false},
		{name: "uppercase PUBLISHED", status: WebsiteStatus("PUBLISHED"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Website{Status: tt.status}
			if got := w.IsPublished(); got != tt.want {
				t.Errorf("Website{Status: %q}.IsPublished() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestWebsiteStatusValid(t *testing.T) {
	for _, s := range []WebsiteStatus{
		WebsiteStatusDraft, WebsiteStatusGenerating, WebsiteStatusReady,
		WebsiteStatusPublished, WebsiteStatusArchived,
	} {
		if !s.Valid() {
			t.Errorf("%q.Valid() = false, want true", s)
		}
	}
	if WebsiteStatus("deleted").Valid() {
		t.Error(`"deleted".Valid() = true, want false`)
	}
}

func TestWebsiteSubdomainValue(t *testing.T) {
	w := &Website{}
	if got := w.SubdomainValue(); got != "" {
		t.Errorf("SubdomainValue() = %q, want empty", got)
	}
	sub := "joes-pizza"
	w.Subdomain = &sub
	if got := w.SubdomainValue(); got != "joes-pizza" {
		t.Errorf("SubdomainValue() = %q, want %q", got, "joes-pizza")
	}
}

func TestDeploymentSucceeded(t *testing.T) {
	if !(&Deployment{Status: DeploymentStatusSuccess}).Succeeded() {
		t.Error("success deployment should report Succeeded")
	}
	if (&Deployment{Status: DeploymentStatusFailed}).Succeeded() {
		t.Error("failed deployment should not report Succeeded")
	}
}
