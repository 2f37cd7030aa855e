package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateSecureOTP(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateSecureOTP()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			require.True(t, r >= '0' && r <= '9', "OTP must be numeric, got %q", code)
		}
	}
}
