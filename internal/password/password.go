package password

import "golang.org/x/crypto/bcrypt"

const hashCost = 12

// Hash produces a salted bcrypt digest of plaintext. The salt is generated
// internally and embedded in the digest.
func Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), hashCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext reproduces digest. A malformed digest is
// simply a non-match, never an error.
func Verify(plaintext string, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
