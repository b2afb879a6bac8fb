package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
)

// Read loads a whole replay file. The header must be the first record.
func Read(path string) (Header, []Record, error) {
	var hdr Header

	f, err := os.Open(path)
	if err != nil {
		return hdr, nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return hdr, nil, err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	var records []Record
	first := true
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return hdr, records, fmt.Errorf("replay: bad record: %w", err)
		}
		if first {
			if rec.Kind != KindHeader || rec.Header == nil {
				return hdr, nil, fmt.Errorf("replay: missing header record")
			}
			hdr = *rec.Header
			first = false
			continue
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return hdr, records, err
	}
	if first {
		return hdr, nil, fmt.Errorf("replay: empty file")
	}
	return hdr, records, nil
}
