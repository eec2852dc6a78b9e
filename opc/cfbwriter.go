package opc

import (
	"encoding/binary"
	"io"
	"unicode/utf16"
)

// CFB sector-chain sentinel values (MS-CFB §2.1).
const (
	cfbFreeSect  uint32 = 0xFFFFFFFF
	cfbEndOfChain uint32 = 0xFFFFFFFE
	cfbFatSect    uint32 = 0xFFFFFFFD
	cfbDifSect    uint32 = 0xFFFFFFFC
	cfbNoStream   uint32 = 0xFFFFFFFF

	cfbSectorSize    = 512
	cfbEntriesPerFat = cfbSectorSize / 4   // 128 uint32 per FAT/DIFAT data sector
	cfbEntriesPerDir = cfbSectorSize / 128 // 4 directory entries per sector
)

// No pack example library writes the CFB container format — mscfb (used
// elsewhere in this package for reading) is read-only. This writer is a
// from-scratch minimal encoder, scoped to exactly what an agile-encrypted
// save needs: a root storage holding two streams, EncryptionInfo and
// EncryptedPackage, with the mini-stream disabled (cutoff size 0) so every
// stream — however small — lives in ordinary FAT sectors and no mini-FAT
// bookkeeping is required.
type cfbNamedStream struct {
	name string
	data []byte
}

// writeCFB serialises streams (in order: EncryptionInfo, EncryptedPackage)
// into a version-3 (512-byte sector) CFB container.
func writeCFB(w io.Writer, streams []cfbNamedStream) error {
	dataSectorCounts := make([]int, len(streams))
	totalDataSectors := 0
	for i, s := range streams {
		n := sectorsFor(len(s.data))
		dataSectorCounts[i] = n
		totalDataSectors += n
	}

	numDirEntries := len(streams) + 1 // +1 for Root Entry
	dirSectors := ceilDiv(numDirEntries, cfbEntriesPerDir)

	fat := 1
	for iter := 0; iter < 64; iter++ {
		difat := 0
		if fat > 109 {
			difat = ceilDiv(fat-109, cfbEntriesPerFat-1)
		}
		total := fat + difat + dirSectors + totalDataSectors
		required := ceilDiv(total, cfbEntriesPerFat)
		if required == fat {
			break
		}
		fat = required
	}
	difat := 0
	if fat > 109 {
		difat = ceilDiv(fat-109, cfbEntriesPerFat-1)
	}

	fatStart := 0
	difatStart := fatStart + fat
	dirStart := difatStart + difat
	dataStart := dirStart + dirSectors
	totalSectors := dataStart + totalDataSectors

	fatArray := make([]uint32, ceilDiv(totalSectors, cfbEntriesPerFat)*cfbEntriesPerFat)
	for i := range fatArray {
		fatArray[i] = cfbFreeSect
	}
	for i := 0; i < fat; i++ {
		fatArray[fatStart+i] = cfbFatSect
	}
	for i := 0; i < difat; i++ {
		fatArray[difatStart+i] = cfbDifSect
	}
	chainSectors(fatArray, dirStart, dirSectors)

	dataSectorStart := make([]int, len(streams))
	cursor := dataStart
	for i, n := range dataSectorCounts {
		if n == 0 {
			dataSectorStart[i] = -1
			continue
		}
		dataSectorStart[i] = cursor
		chainSectors(fatArray, cursor, n)
		cursor += n
	}

	dirBuf := make([]byte, dirSectors*cfbSectorSize)
	writeDirEntry(dirBuf, 0, "Root Entry", 5, 1, cfbNoStream, cfbNoStream, firstChildIndex(len(streams)), cfbEndOfChain, 0)
	for i, s := range streams {
		idx := i + 1
		right := uint32(cfbNoStream)
		if i+1 < len(streams) {
			right = uint32(i + 2)
		}
		start := uint32(cfbEndOfChain)
		if dataSectorStart[i] >= 0 {
			start = uint32(dataSectorStart[i])
		}
		writeDirEntry(dirBuf, idx, s.name, 2, 1, cfbNoStream, right, cfbNoStream, start, uint64(len(s.data)))
	}

	header := make([]byte, cfbSectorSize)
	copy(header[0:8], []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})
	binary.LittleEndian.PutUint16(header[24:26], 0x003E) // minor version
	binary.LittleEndian.PutUint16(header[26:28], 0x0003) // major version 3
	binary.LittleEndian.PutUint16(header[28:30], 0xFFFE) // byte order
	binary.LittleEndian.PutUint16(header[30:32], 9)      // sector shift: 2^9 = 512
	binary.LittleEndian.PutUint16(header[32:34], 6)      // mini sector shift: 2^6 = 64
	binary.LittleEndian.PutUint32(header[40:44], 0)      // number of directory sectors, must be 0 for v3
	binary.LittleEndian.PutUint32(header[44:48], uint32(fat))
	binary.LittleEndian.PutUint32(header[48:52], uint32(dirStart))
	binary.LittleEndian.PutUint32(header[52:56], 0) // transaction signature
	binary.LittleEndian.PutUint32(header[56:60], 0) // mini stream cutoff size: 0 disables the ministream
	binary.LittleEndian.PutUint32(header[60:64], cfbEndOfChain)
	binary.LittleEndian.PutUint32(header[64:68], 0)
	if difat > 0 {
		binary.LittleEndian.PutUint32(header[68:72], uint32(difatStart))
	} else {
		binary.LittleEndian.PutUint32(header[68:72], cfbEndOfChain)
	}
	binary.LittleEndian.PutUint32(header[72:76], uint32(difat))

	for i := 0; i < 109; i++ {
		off := 76 + i*4
		if i < fat && i < 109 {
			binary.LittleEndian.PutUint32(header[off:off+4], uint32(fatStart+i))
		} else {
			binary.LittleEndian.PutUint32(header[off:off+4], cfbFreeSect)
		}
	}

	var difatBuf []byte
	if difat > 0 {
		difatBuf = make([]byte, difat*cfbSectorSize)
		remaining := fat - 109
		fatIdx := 109
		for s := 0; s < difat; s++ {
			base := s * cfbSectorSize
			for e := 0; e < cfbEntriesPerFat-1; e++ {
				off := base + e*4
				if remaining > 0 {
					binary.LittleEndian.PutUint32(difatBuf[off:off+4], uint32(fatStart+fatIdx))
					fatIdx++
					remaining--
				} else {
					binary.LittleEndian.PutUint32(difatBuf[off:off+4], cfbFreeSect)
				}
			}
			next := cfbEndOfChain
			if s+1 < difat {
				next = uint32(difatStart + s + 1)
			}
			binary.LittleEndian.PutUint32(difatBuf[base+(cfbEntriesPerFat-1)*4:base+cfbEntriesPerFat*4], uint32(next))
		}
	}

	fatBuf := make([]byte, len(fatArray)*4)
	for i, v := range fatArray {
		binary.LittleEndian.PutUint32(fatBuf[i*4:i*4+4], v)
	}

	for _, chunk := range [][]byte{header, fatBuf[:fat*cfbSectorSize], difatBuf, dirBuf} {
		if len(chunk) == 0 {
			continue
		}
		if _, err := w.Write(chunk); err != nil {
			return errIo("write CFB header/FAT/directory: %v", err)
		}
	}
	for _, s := range streams {
		if _, err := w.Write(s.data); err != nil {
			return errIo("write CFB stream %q: %v", s.name, err)
		}
		if pad := sectorsFor(len(s.data))*cfbSectorSize - len(s.data); pad > 0 {
			if _, err := w.Write(make([]byte, pad)); err != nil {
				return errIo("pad CFB stream %q: %v", s.name, err)
			}
		}
	}
	return nil
}

func firstChildIndex(numStreams int) uint32 {
	if numStreams == 0 {
		return cfbNoStream
	}
	return 1
}

func chainSectors(fat []uint32, start, count int) {
	for i := 0; i < count; i++ {
		if i == count-1 {
			fat[start+i] = cfbEndOfChain
		} else {
			fat[start+i] = uint32(start + i + 1)
		}
	}
}

func sectorsFor(n int) int {
	if n == 0 {
		return 0
	}
	return ceilDiv(n, cfbSectorSize)
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// writeDirEntry encodes one 128-byte CFB directory entry at index idx
// within buf (which must be large enough to hold idx+1 entries).
func writeDirEntry(buf []byte, idx int, name string, objType, color byte, left, right, child, start uint32, size uint64) {
	off := idx * 128
	u16 := utf16.Encode([]rune(name))
	nameBytes := make([]byte, 0, 64)
	for _, u := range u16 {
		nameBytes = append(nameBytes, byte(u), byte(u>>8))
	}
	nameBytes = append(nameBytes, 0, 0) // null terminator
	copy(buf[off:off+64], nameBytes)
	binary.LittleEndian.PutUint16(buf[off+64:off+66], uint16(len(nameBytes)))
	buf[off+66] = objType
	buf[off+67] = color
	binary.LittleEndian.PutUint32(buf[off+68:off+72], left)
	binary.LittleEndian.PutUint32(buf[off+72:off+76], right)
	binary.LittleEndian.PutUint32(buf[off+76:off+80], child)
	// CLSID (16), state bits (4), two 8-byte timestamps are left zero.
	binary.LittleEndian.PutUint32(buf[off+116:off+120], start)
	binary.LittleEndian.PutUint64(buf[off+120:off+128], size)
}
