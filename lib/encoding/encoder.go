// Package encoding packs patch frames for transport to a remote renderer.
//
// A frame is msgpack encoded and then either signed (base64 + HMAC, readable
// but tamper-proof) or sealed with AES-256-GCM (opaque).
package encoding

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/pthm/tmplcmp/lib/morph"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrInvalidFormat    = errors.New("encoding: invalid frame format")
	ErrSignatureInvalid = errors.New("encoding: signature verification failed")
	ErrDecryptFailed    = errors.New("encoding: frame decryption failed")
)

// Frame is one batch of patches produced by a render pass.
type Frame struct {
	Seq     uint64        `msgpack:"s"`
	Kind    string        `msgpack:"k"`
	Root    string        `msgpack:"r,omitempty"` // selector of the mounted root
	Patches morph.Patches `msgpack:"p"`
}

// Encoder signs or seals frames with a shared key.
type Encoder struct {
	key []byte
	gcm cipher.AEAD
}

// NewEncoder creates an encoder. Keys shorter than 32 bytes are stretched
// with SHA-256.
func NewEncoder(key []byte) (*Encoder, error) {
	if len(key) < 32 {
		h := sha256.Sum256(key)
		key = h[:]
	}

	block, err := aes.NewCipher(key[:32])
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Encoder{
		key: key,
		gcm: gcm,
	}, nil
}

// Encode packs a frame. With sealed set the frame is encrypted, otherwise
// it is signed.
func (e *Encoder) Encode(f Frame, sealed bool) (string, error) {
	packed, err := msgpack.Marshal(&f)
	if err != nil {
		return "", fmt.Errorf("encoding: marshal frame: %w", err)
	}

	if sealed {
		return e.encrypt(packed)
	}
	return e.sign(packed), nil
}

// Decode unpacks a frame produced by Encode with the same sealed setting.
func (e *Encoder) Decode(encoded string, sealed bool) (Frame, error) {
	var packed []byte
	var err error

	if sealed {
		packed, err = e.decrypt(encoded)
	} else {
		packed, err = e.verify(encoded)
	}
	if err != nil {
		return Frame{}, err
	}

	var f Frame
	if err := msgpack.Unmarshal(packed, &f); err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return f, nil
}

// sign creates base64(data).base64(mac)
func (e *Encoder) sign(data []byte) string {
	b64 := base64.RawURLEncoding.EncodeToString(data)
	mac := hmac.New(sha256.New, e.key)
	mac.Write(data)
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil)[:16])
	return b64 + "." + sig
}

func (e *Encoder) verify(encoded string) ([]byte, error) {
	parts := strings.SplitN(encoded, ".", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: missing signature", ErrInvalidFormat)
	}

	data, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	mac := hmac.New(sha256.New, e.key)
	mac.Write(data)
	if !hmac.Equal(sig, mac.Sum(nil)[:16]) {
		return nil, ErrSignatureInvalid
	}

	return data, nil
}

func (e *Encoder) encrypt(data []byte) (string, error) {
	nonce := make([]byte, e.gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ciphertext := e.gcm.Seal(nonce, nonce, data, nil)
	return base64.RawURLEncoding.EncodeToString(ciphertext), nil
}

func (e *Encoder) decrypt(encoded string) ([]byte, error) {
	ciphertext, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	if len(ciphertext) < e.gcm.NonceSize() {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrInvalidFormat)
	}

	nonce := ciphertext[:e.gcm.NonceSize()]
	plain, err := e.gcm.Open(nil, nonce, ciphertext[e.gcm.NonceSize():], nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plain, nil
}
