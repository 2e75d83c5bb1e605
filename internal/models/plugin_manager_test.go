// ABOUTME: Tests for the PluginManager enumeration
// ABOUTME: Verifies validity, detectability and selection priority

package models

import "testing"

func TestPluginManager(t *testing.T) {
	tests := []struct {
		m          PluginManager
		valid      bool
		detectable bool
		priority   int
		lua        bool
	}{
		{LazyNvim, true, true, 0, true},
		{PackerNvim, true, true, 1, true},
		{VimPlug, true, true, 2, false},
		{VimPack, true, false, 3, true},
		{PluginManager("dein.vim"), false, false, 3, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.m), func(t *testing.T) {
			if got := tt.m.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
			if got := tt.m.IsDetectable(); got != tt.detectable {
				t.Errorf("IsDetectable() = %v, want %v", got, tt.detectable)
			}
			if got := tt.m.Priority(); got != tt.priority {
				t.Errorf("Priority() = %d, want %d", got, tt.priority)
			}
			if got := tt.m.IsLua(); got != tt.lua {
				t.Errorf("IsLua() = %v, want %v", got, tt.lua)
			}
		})
	}
}
