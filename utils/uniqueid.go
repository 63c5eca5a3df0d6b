// utils/uniqueid.go
package utils

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// randomToken returns n random uppercase base32 characters.
func randomToken(n int) (string, error) {
	// base32 gives 8 chars per 5 bytes; over-allocate and cut.
	raw := make([]byte, n)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	encoded := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(raw)
	encoded = strings.ToUpper(encoded)
	if len(encoded) < n {
		encoded = encoded + strings.Repeat("0", n-len(encoded))
	}
	return encoded[:n], nil
}

// NewUniqueID generates an identifier of the form {PREFIX}{TOKEN} and checks
// it against the transactionId field of the given collection before handing
// it out. Token length starts at minLen and widens toward maxLen as
// collisions occur; after that a UUID-derived suffix is the last resort.
func NewUniqueID(ctx context.Context, coll *mongo.Collection, prefix string, minLen, maxLen int) (string, error) {
	if minLen <= 0 {
		minLen = 6
	}
	if maxLen < minLen {
		maxLen = minLen
	}

	for length := minLen; length <= maxLen; length++ {
		for attempt := 0; attempt < 3; attempt++ {
			token, err := randomToken(length)
			if err != nil {
				return "", fmt.Errorf("failed to generate id token: %w", err)
			}
			candidate := prefix + token

			count, err := coll.CountDocuments(ctx, bson.M{"transactionId": candidate})
			if err != nil {
				return "", fmt.Errorf("failed to check id uniqueness: %w", err)
			}
			if count == 0 {
				return candidate, nil
			}
		}
	}

	// Practically unreachable, but never return a duplicate.
	fallback := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	if len(fallback) > maxLen {
		fallback = fallback[:maxLen]
	}
	return fmt.Sprintf("%s%s%d", prefix, fallback, time.Now().Unix()%1000), nil
}
