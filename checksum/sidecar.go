package checksum

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/jmgilman/go/fsshell/core"
)

// Sidecar layout: 4-byte magic, big-endian uint32 block size, then one
// big-endian CRC-32C per data block. The final block may be short; a
// zero-length file has a header and no sums.
var sidecarMagic = [4]byte{'c', 'r', 'c', 0}

const sidecarHeaderLen = 8

// sidecarPerm is the mode sidecar files are written with.
const sidecarPerm = 0644

// castagnoli is the CRC-32C table shared by all hashing in this package.
var castagnoli = crc32.MakeTable(crc32.Castagnoli)

var errBadSidecar = errors.New("malformed checksum file")

// encodeSidecar serializes block sums into sidecar bytes.
func encodeSidecar(sums []uint32, blockSize uint32) []byte {
	buf := make([]byte, sidecarHeaderLen+4*len(sums))
	copy(buf, sidecarMagic[:])
	binary.BigEndian.PutUint32(buf[4:], blockSize)
	for i, sum := range sums {
		binary.BigEndian.PutUint32(buf[sidecarHeaderLen+4*i:], sum)
	}
	return buf
}

// decodeSidecar parses sidecar bytes into block sums and the block size
// they were computed with.
func decodeSidecar(raw []byte) ([]uint32, uint32, error) {
	if len(raw) < sidecarHeaderLen || [4]byte(raw[:4]) != sidecarMagic {
		return nil, 0, errBadSidecar
	}
	blockSize := binary.BigEndian.Uint32(raw[4:])
	if blockSize == 0 || (len(raw)-sidecarHeaderLen)%4 != 0 {
		return nil, 0, errBadSidecar
	}
	body := raw[sidecarHeaderLen:]
	sums := make([]uint32, len(body)/4)
	for i := range sums {
		sums[i] = binary.BigEndian.Uint32(body[4*i:])
	}
	return sums, blockSize, nil
}

// sumBlocks computes the CRC-32C of each blockSize-sized slice of data.
func sumBlocks(data []byte, blockSize uint32) []uint32 {
	bs := int(blockSize)
	sums := make([]uint32, 0, (len(data)+bs-1)/bs)
	for start := 0; start < len(data); start += bs {
		end := min(start+bs, len(data))
		sums = append(sums, crc32.Checksum(data[start:end], castagnoli))
	}
	return sums
}

// verifyBlocks checks data against previously stored block sums.
func verifyBlocks(data []byte, sums []uint32, blockSize uint32) error {
	computed := sumBlocks(data, blockSize)
	if len(computed) != len(sums) {
		return fmt.Errorf("%w: have %d blocks, sidecar records %d",
			core.ErrChecksumMismatch, len(computed), len(sums))
	}
	for i, sum := range computed {
		if sum != sums[i] {
			return fmt.Errorf("%w: block %d", core.ErrChecksumMismatch, i)
		}
	}
	return nil
}
