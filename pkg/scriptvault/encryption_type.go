package scriptvault

// EncryptionType tags how a stored script payload is sealed.
type EncryptionType = int8

const (
	EncryptionNone              EncryptionType = 0 // payload stored as-is
	EncryptionXChaCha20Poly1305 EncryptionType = 1 // XChaCha20-Poly1305 AEAD (default for sealed bundles)
	EncryptionAES256GCM         EncryptionType = 2 // AES-256-GCM AEAD
)
