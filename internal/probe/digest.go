package probe

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// DigestSentinel replaces a digest that could not be computed.
const DigestSentinel = "error"

// Digests holds the two content digests rendered in a file's metadata block.
type Digests struct {
	MD5    string
	SHA256 string
}

// HashFile streams the file once through both hash functions. On failure both
// digests are set to DigestSentinel and a *DigestError is returned.
func HashFile(path string) (Digests, error) {
	f, err := os.Open(path)
	if err != nil {
		return failedDigests(), &DigestError{Path: path, Err: err}
	}
	defer f.Close()

	md5h := md5.New()
	shah := sha256.New()
	if _, err := io.Copy(io.MultiWriter(md5h, shah), f); err != nil {
		return failedDigests(), &DigestError{Path: path, Err: fmt.Errorf("failed to read: %w", err)}
	}

	return Digests{
		MD5:    hex.EncodeToString(md5h.Sum(nil)),
		SHA256: hex.EncodeToString(shah.Sum(nil)),
	}, nil
}

func failedDigests() Digests {
	return Digests{MD5: DigestSentinel, SHA256: DigestSentinel}
}
