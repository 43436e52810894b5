// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/MKhiriev/go-calendar-sync/models"
)

func TestInitHasherPoolAndHash(t *testing.T) {
	key := "secret-key"
	InitHasherPool(key)

	data := []byte("test-data")

	sum1 := Hash(data)
	sum2 := Hash(data)

	if len(sum1) == 0 {
		t.Fatal("hash result is empty")
	}

	if !bytes.Equal(sum1, sum2) {
		t.Fatal("hash must be deterministic for the same input")
	}

	// verify against direct HMAC computation
	h := hmac.New(sha256.New, []byte(key))
	h.Write(data)
	expected := h.Sum(nil)

	if !bytes.Equal(sum1, expected) {
		t.Fatalf("unexpected hash value\nwant: %x\ngot:  %x", expected, sum1)
	}
}

const testHashKey = "test-secret-key"

func TestHash_WithRealPayload(t *testing.T) {
	InitHasherPool(testHashKey)

	payload := models.OpenWindowRequest{Window: 7}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	got := hex.EncodeToString(Hash(payloadBytes))

	// reference digest computed directly via crypto/hmac
	mac := hmac.New(sha256.New, []byte(testHashKey))
	mac.Write(payloadBytes)
	want := hex.EncodeToString(mac.Sum(nil))

	if got != want {
		t.Errorf("Hash mismatch:\n  got:  %s\n  want: %s", got, want)
	}
}

func TestHash_DifferentPayloads(t *testing.T) {
	InitHasherPool(testHashKey)

	bytes1, _ := json.Marshal(models.OpenWindowRequest{Window: 1})
	bytes2, _ := json.Marshal(models.OpenWindowRequest{Window: 2})

	hash1 := hex.EncodeToString(Hash(bytes1))
	hash2 := hex.EncodeToString(Hash(bytes2))

	if hash1 == hash2 {
		t.Error("different payloads must produce different hashes")
	}
}

func TestHash_DifferentKeys(t *testing.T) {
	payloadBytes, _ := json.Marshal(models.OpenWindowRequest{Window: 3})

	InitHasherPool("key-one")
	hash1 := hex.EncodeToString(Hash(payloadBytes))

	InitHasherPool("key-two")
	hash2 := hex.EncodeToString(Hash(payloadBytes))

	if hash1 == hash2 {
		t.Error("different keys must produce different hashes for the same payload")
	}
}

// TestHash_UnmarshalThenHash verifies that two JSON bodies with the same
// values but a different field order hash identically after the
// Unmarshal -> Marshal normalization the transport layer applies.
func TestHash_UnmarshalThenHash(t *testing.T) {
	InitHasherPool(testHashKey)

	json1 := []byte(`{"login":"anna","name":"Anna","password":"pw"}`)
	json2 := []byte(`{"password":"pw","login":"anna","name":"Anna"}`)

	var user1 models.User
	if err := json.Unmarshal(json1, &user1); err != nil {
		t.Fatalf("failed to unmarshal json1: %v", err)
	}

	var user2 models.User
	if err := json.Unmarshal(json2, &user2); err != nil {
		t.Fatalf("failed to unmarshal json2: %v", err)
	}

	bytes1, err := json.Marshal(user1)
	if err != nil {
		t.Fatalf("failed to marshal user1: %v", err)
	}

	bytes2, err := json.Marshal(user2)
	if err != nil {
		t.Fatalf("failed to marshal user2: %v", err)
	}

	hash1 := hex.EncodeToString(Hash(bytes1))
	hash2 := hex.EncodeToString(Hash(bytes2))

	if hash1 != hash2 {
		t.Error("hashes must be equal after Unmarshal -> Marshal normalization")
	}
}

func TestHashString_HexEncoded(t *testing.T) {
	got := HashString("payload", "key")

	mac := hmac.New(sha256.New, []byte("key"))
	mac.Write([]byte("payload"))
	want := hex.EncodeToString(mac.Sum(nil))

	if got != want {
		t.Errorf("HashString mismatch:\n  got:  %s\n  want: %s", got, want)
	}

	if _, err := hex.DecodeString(got); err != nil {
		t.Errorf("HashString must return hex-encoded output: %v", err)
	}
}

func TestHashingEnabled(t *testing.T) {
	InitHasherPool("")
	if HashingEnabled() {
		t.Error("empty key must leave hashing disabled")
	}

	InitHasherPool(testHashKey)
	if !HashingEnabled() {
		t.Error("non-empty key must enable hashing")
	}
}
