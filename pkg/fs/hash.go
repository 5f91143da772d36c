package fs

import (
	"crypto/sha1"
	"encoding/hex"
	"hash"
	"hash/crc32"
	"io"
	"os"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Hash returns the hex encoded SHA1 of a file, or an empty string if it can't be read.
func Hash(fileName string) string {
	return sum(fileName, sha1.New())
}

// Checksum returns the hex encoded CRC32 (Castagnoli) of a file, or an empty string if it can't be read.
func Checksum(fileName string) string {
	return sum(fileName, crc32.New(castagnoli))
}

func sum(fileName string, h hash.Hash) string {
	f, err := os.Open(fileName)

	if err != nil {
		return ""
	}

	defer f.Close()

	if _, err := io.Copy(h, f); err != nil {
		return ""
	}

	return hex.EncodeToString(h.Sum(nil))
}
