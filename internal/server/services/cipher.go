package services

// SecretCipher encrypts secret fields before they are stored and decrypts
// them for their owner. *cryptox.Cipher satisfies it.
type SecretCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}
