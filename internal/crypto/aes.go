package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/scrypt"
)

// salt fixo: a chave só protege o token persistido nesta máquina.
var keySalt = []byte("tenant-console/session/v1")

// DeriveKey gera uma chave AES-256 a partir de uma passphrase usando scrypt.
func DeriveKey(passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, errors.New("passphrase vazia")
	}
	return scrypt.Key([]byte(passphrase), keySalt, 1<<15, 8, 1, 32)
}

// EncryptAES cifra dados usando AES-256-GCM.
func EncryptAES(key, plaintext []byte) ([]byte, error) {
	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return aesGCM.Seal(nonce, nonce, plaintext, nil), nil
}

// DecryptAES decifra dados usando AES-256-GCM.
func DecryptAES(key, ciphertext []byte) ([]byte, error) {
	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < aesGCM.NonceSize() {
		return nil, errors.New("ciphertext inválido")
	}
	nonce := ciphertext[:aesGCM.NonceSize()]
	data := ciphertext[aesGCM.NonceSize():]
	return aesGCM.Open(nil, nonce, data, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != 32 {
		return nil, errors.New("chave AES deve ter 32 bytes (AES-256)")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Sealer cifra valores de texto para persistência (base64 do ciphertext).
type Sealer struct {
	key []byte
}

// NewSealer cria um Sealer a partir de uma passphrase.
func NewSealer(passphrase string) (*Sealer, error) {
	key, err := DeriveKey(passphrase)
	if err != nil {
		return nil, err
	}
	return &Sealer{key: key}, nil
}

func (s *Sealer) Seal(plain string) (string, error) {
	ct, err := EncryptAES(s.key, []byte(plain))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ct), nil
}

func (s *Sealer) Open(sealed string) (string, error) {
	ct, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", err
	}
	pt, err := DecryptAES(s.key, ct)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}
