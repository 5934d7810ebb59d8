package utils

import (
	"crypto/rand"
	"math/big"
	"regexp"
)

// Invite codes double as one-time passwords, so the alphabet avoids
// ambiguous characters (0/O, 1/I/L).
const inviteCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

var inviteCodeRe = regexp.MustCompile(`^[A-Za-z0-9]+$`)

func GenerateInviteCode(length int) (string, error) {
	if length <= 0 {
		length = 8
	}
	out := make([]byte, length)
	max := big.NewInt(int64(len(inviteCodeAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = inviteCodeAlphabet[n.Int64()]
	}
	return string(out), nil
}

// ValidInviteCode enforces the alphanumeric, non-empty code format.
func ValidInviteCode(code string) bool {
	return code != "" && inviteCodeRe.MatchString(code)
}
