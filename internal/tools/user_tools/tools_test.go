package user_tools

import (
	"testing"
)

func TestRegisterUserTools(t *testing.T) {
	// This test verifies that RegisterUserTools doesn't panic
	// We can't fully test the registration without a real MCP server and context
	// But we can ensure the function signature is correct
	_ = RegisterUserTools
}
