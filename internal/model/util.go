package model

import (
	"github.com/btcsuite/btcutil/base58"
	"github.com/google/uuid"
)

// CreateID returns an opaque base58-encoded id. Base58 never contains an
// underscore, which callback tokens rely on.
func CreateID() string {
	uuid, _ := uuid.NewRandom()
	return base58.Encode(uuid[:])
}
