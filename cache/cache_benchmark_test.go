package cache

import (
	"math/rand"
	"testing"
)

// benchWriter is a writer without I/O costs, to benchmark the cache paths
// alone.
type benchWriter struct{}

func (benchWriter) FlushLog() error        { return nil }
func (benchWriter) WriteBack(Record) error { return nil }
func (benchWriter) GetTrace() Trace        { return nil }

var recSink Record

func benchTypes() []string {
	return []string{TypeLRU, TypeFIFO, TypeMRU, TypeClock, TypeRandom}
}

func BenchmarkCacheGetHit(b *testing.B) {
	for _, cacheType := range benchTypes() {
		b.Run(cacheType, func(b *testing.B) {
			c, err := New(benchWriter{}, cacheType, 400)
			if err != nil {
				b.Fatalf("failed to create cache: %v", err)
			}
			const resident = 64
			for i := int32(0); i < resident; i++ {
				if err := c.Put(newTestRecord(i, int(i), 128)); err != nil {
					b.Fatalf("put failed: %v", err)
				}
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				recSink = c.Get(int32(i) % resident)
			}
		})
	}
}

func BenchmarkCacheMixedOperations(b *testing.B) {
	for _, cacheType := range benchTypes() {
		b.Run(cacheType, func(b *testing.B) {
			c, err := New(benchWriter{}, cacheType, 400)
			if err != nil {
				b.Fatalf("failed to create cache: %v", err)
			}
			const size = 10_000
			records := make([]*testRecord, size)
			for i := range records {
				records[i] = newTestRecord(int32(i), i, 1024)
			}
			randOperation := rand.New(rand.NewSource(0))
			randIndex := rand.New(rand.NewSource(1))
			randValue := rand.New(rand.NewSource(2))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				pos := int32(randIndex.Intn(size))
				switch randOperation.Intn(4) {
				case 0:
					rec := records[pos]
					if c.Find(pos) == nil && rec.next == nil && rec.prev == nil {
						if err := c.Put(rec); err != nil {
							b.Fatalf("put failed: %v", err)
						}
					}
				case 1:
					recSink = c.Get(pos)
				case 2:
					if rec := c.Find(pos); rec != nil {
						records[pos].data = randValue.Intn(100)
						if _, err := c.Update(pos, rec); err != nil {
							b.Fatalf("update failed: %v", err)
						}
					}
				case 3:
					c.Remove(pos)
				}
			}
		})
	}
}
