package artifact

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/clearsign"
)

// WriteChecksums writes a SHA256SUMS-style file for the promoted binary so
// the release can be verified independently of the build environment.
func WriteChecksums(binPath, sumsPath string) error {
	data, err := os.ReadFile(binPath)
	if err != nil {
		return fmt.Errorf("failed to read binary: %w", err)
	}
	h := sha256.Sum256(data)
	line := fmt.Sprintf("%x  %s\n", h, filepath.Base(binPath))
	if err := os.WriteFile(sumsPath, []byte(line), 0644); err != nil {
		return fmt.Errorf("failed to write checksums: %w", err)
	}
	return nil
}

// SignChecksums clearsigns the checksum file with the provided ASCII-armored
// PGP private key and writes the result next to it with an .asc suffix.
func SignChecksums(sumsPath, key string) error {
	data, err := os.ReadFile(sumsPath)
	if err != nil {
		return fmt.Errorf("failed to read checksums: %w", err)
	}
	signed, err := signBytes(data, key)
	if err != nil {
		return fmt.Errorf("failed to sign checksums: %w", err)
	}
	if err := os.WriteFile(sumsPath+".asc", signed, 0644); err != nil {
		return fmt.Errorf("failed to write signed checksums: %w", err)
	}
	return nil
}

// signBytes signs the provided input bytes using the provided ASCII-armored
// PGP private key. It returns the signed message in clearsigned format.
func signBytes(input []byte, key string) ([]byte, error) {
	entities, err := openpgp.ReadArmoredKeyRing(strings.NewReader(key))
	if err != nil {
		return nil, err
	}
	var signer *openpgp.Entity
	for _, e := range entities {
		if e.PrivateKey != nil {
			signer = e
			break
		}
	}
	if signer == nil {
		return nil, fmt.Errorf("no private key found")
	}

	var out bytes.Buffer
	w, err := clearsign.Encode(&out, signer.PrivateKey, nil)
	if err != nil {
		return nil, err
	}
	w.Write(input)
	w.Close()
	return out.Bytes(), nil
}
