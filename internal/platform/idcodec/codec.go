package idcodec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
)

const (
	// La clave viene como hex string de 64 chars (32 bytes => AES-256).
	KeyHexLength = 64

	ivLength  = 16
	tagLength = 16
)

var (
	ErrInvalidKey   = errors.New("idcodec: key must be a 64-character hex string")
	ErrInvalidToken = errors.New("idcodec: invalid token")
)

// Codec cifra/descifra IDs internos para exponerlos como tokens opacos.
// Formato del token: hex(iv || authTag || ciphertext), AES-256-GCM.
// Encode es no-determinístico (IV aleatorio por llamada); Decode rechaza
// cualquier token alterado o malformado en lugar de devolver un ID inventado.
type Codec struct {
	aead cipher.AEAD
}

// New construye el codec a partir de la clave en hex.
// Una clave ausente o de largo incorrecto es error (el proceso no debe
// arrancar cifrando mal).
func New(hexKey string) (*Codec, error) {
	if len(hexKey) != KeyHexLength {
		return nil, ErrInvalidKey
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	// IV de 16 bytes para mantener el layout iv(16)||tag(16)||ct del formato
	// original, en vez del nonce de 12 del default de GCM.
	aead, err := cipher.NewGCMWithNonceSize(block, ivLength)
	if err != nil {
		return nil, err
	}

	return &Codec{aead: aead}, nil
}

// Encode produce un token nuevo en cada llamada para el mismo ID.
func (c *Codec) Encode(id string) (string, error) {
	if id == "" {
		return "", nil
	}

	iv := make([]byte, ivLength)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}

	// Seal devuelve ciphertext||tag; reordenamos a iv||tag||ciphertext.
	sealed := c.aead.Seal(nil, iv, []byte(id), nil)
	ct := sealed[:len(sealed)-tagLength]
	tag := sealed[len(sealed)-tagLength:]

	out := make([]byte, 0, ivLength+len(sealed))
	out = append(out, iv...)
	out = append(out, tag...)
	out = append(out, ct...)
	return hex.EncodeToString(out), nil
}

// Decode recupera el ID interno o falla con ErrInvalidToken.
// Todo token es input del cliente: se valida el tag antes de confiar
// en el plaintext.
func (c *Codec) Decode(token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}

	data, err := hex.DecodeString(token)
	if err != nil {
		return "", ErrInvalidToken
	}
	if len(data) < ivLength+tagLength {
		return "", ErrInvalidToken
	}

	iv := data[:ivLength]
	tag := data[ivLength : ivLength+tagLength]
	ct := data[ivLength+tagLength:]

	sealed := make([]byte, 0, len(ct)+tagLength)
	sealed = append(sealed, ct...)
	sealed = append(sealed, tag...)

	plain, err := c.aead.Open(nil, iv, sealed, nil)
	if err != nil {
		return "", ErrInvalidToken
	}
	return string(plain), nil
}
