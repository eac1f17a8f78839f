package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

func GenerateUUID() string {
	return uuid.NewString()
}

// GenerateReference returns a short, human-readable booking reference such
// as "LX-1734652800-042137".
func GenerateReference() string {
	timestamp := time.Now().Unix()
	randomNum, _ := rand.Int(rand.Reader, big.NewInt(999999))
	return fmt.Sprintf("LX-%d-%06d", timestamp, randomNum.Int64())
}
