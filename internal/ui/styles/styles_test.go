// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/jeranaias/clinic-tui/internal/model"
)

func TestNewTheme_ExplicitMode(t *testing.T) {
	if th := NewTheme("dark"); !th.IsDark {
		t.Error("dark theme should report IsDark")
	}
	if th := NewTheme("light"); th.IsDark {
		t.Error("light theme should not report IsDark")
	}
}

func TestRoleColor(t *testing.T) {
	if RoleColor(model.RoleAdmin) != Purple {
		t.Error("admin should be purple")
	}
	if RoleColor(model.RoleDoctor) != Cyan {
		t.Error("doctor should be cyan")
	}
	if RoleColor(model.RoleClient) != Emerald {
		t.Error("client should be emerald")
	}
	if RoleColor(model.Role("Nurse")) != TextMuted {
		t.Error("unknown roles should be muted")
	}
}

func TestRenderHelpersKeepIndicators(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{RenderSuccess("saved"), StatusIndicators.Success},
		{RenderError("failed"), StatusIndicators.Error},
		{RenderWarning("expiring"), StatusIndicators.Warning},
		{RenderInfo("note"), StatusIndicators.Info},
	}
	for _, tt := range tests {
		if !strings.Contains(tt.got, tt.want) {
			t.Errorf("%q should contain indicator %q", tt.got, tt.want)
		}
	}
}
