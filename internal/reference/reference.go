package reference

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"
)

// New генерирует человекочитаемый номер брони вида PREFIX-YYYYMMDD-NNNN.
// Хвост берётся из crypto/rand; уникальность в хранилище гарантирует
// вызывающая сторона (повторная генерация при коллизии).
func New(prefix string, now time.Time) string {
	var raw [4]byte
	_, _ = rand.Read(raw[:])
	n := binary.BigEndian.Uint32(raw[:]) % 10000
	return fmt.Sprintf("%s-%s-%04d", prefix, now.UTC().Format("20060102"), n)
}
