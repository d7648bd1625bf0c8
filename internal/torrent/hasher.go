package torrent

import (
	"crypto/sha1"
	"crypto/sha256"
	"io"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/tajoumaru/torrite/internal/scanner"
)

// fileResult is a single file's v2 Merkle tree outcome.
type fileResult struct {
	root   [32]byte
	layer  [][32]byte
	length int64
}

// abortFlag is a single-writer error slot with first-write-wins
// semantics: on the first fatal I/O error the pool is signalled to stop
// starting new work, per spec §4.3/§5/§7.
type abortFlag struct {
	errOnce sync.Once
	err     error
	stopped int32
}

func (a *abortFlag) fail(err error) {
	a.errOnce.Do(func() {
		a.err = err
		atomic.StoreInt32(&a.stopped, 1)
	})
}

func (a *abortFlag) stop() bool {
	return atomic.LoadInt32(&a.stopped) != 0
}

// runPool runs fn(i) for i in [0, n) across workers goroutines, stopping
// early on the first error. The returned error is whichever fn call
// reported first via abort.fail; later errors are discarded.
func runPool(n, workers int, abort *abortFlag, fn func(i int)) error {
	if n == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	jobs := make(chan int, n)
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if abort.stop() {
					return
				}
				fn(i)
			}
		}()
	}
	wg.Wait()
	return abort.err
}

// v1Pipeline hashes the concatenated content stream into fixed-size
// pieces (the last may be short), piece-parallel across the worker pool.
// Reads are positional so pieces spanning a file boundary need no shared
// cursor.
func v1Pipeline(files []scanner.FileEntry, pieceLength int64, numPieces, workers int, progress func(), display Displayer) ([]byte, error) {
	offsets := make([]int64, len(files))
	var total int64
	for i, f := range files {
		offsets[i] = total
		total += f.Length
	}

	pieces := make([]byte, numPieces*sha1.Size)
	abort := &abortFlag{}

	err := runPool(numPieces, workers, abort, func(i int) {
		start := int64(i) * pieceLength
		end := start + pieceLength
		if end > total {
			end = total
		}
		buf := make([]byte, end-start)
		if err := readRange(files, offsets, start, end, buf); err != nil {
			abort.fail(err)
			return
		}
		sum := sha1.Sum(buf)
		copy(pieces[i*sha1.Size:], sum[:])
		if progress != nil {
			progress()
		}
	})
	return pieces, err
}

// readRange fills buf with bytes [start, end) of the virtual concatenation
// of files, opening whichever files it spans independently.
func readRange(files []scanner.FileEntry, offsets []int64, start, end int64, buf []byte) error {
	if start == end {
		return nil
	}
	idx := sort.Search(len(offsets), func(i int) bool {
		return offsets[i]+files[i].Length > start
	})

	pos := start
	for pos < end {
		f := files[idx]
		fileStart := offsets[idx]
		fileEnd := fileStart + f.Length

		readStart := pos - fileStart
		readEnd := end - fileStart
		if fileEnd-fileStart < readEnd {
			readEnd = fileEnd - fileStart
		}
		n := int(readEnd - readStart)
		if n > 0 {
			fh, err := openFile(f.Abs)
			if err != nil {
				return err
			}
			_, err = fh.Read(readStart, buf[:n])
			closeErr := fh.Close()
			if err != nil && err != io.EOF {
				return err
			}
			if closeErr != nil {
				return closeErr
			}
			buf = buf[n:]
		}
		pos += int64(n)
		idx++
	}
	return nil
}

// hashFileV2 reads a file in 16 KiB leaf blocks and builds its Merkle
// tree. An empty file contributes a single zero-hash leaf per spec §4.4.
func hashFileV2(f scanner.FileEntry, pieceLength int64) (fileResult, error) {
	if f.Length == 0 {
		tree := buildMerkleTree(nil)
		return fileResult{root: tree.root()}, nil
	}

	fh, err := openFile(f.Abs)
	if err != nil {
		return fileResult{}, err
	}
	defer fh.Close()

	numLeaves := int((f.Length + leafSize - 1) / leafSize)
	leaves := make([][32]byte, numLeaves)
	buf := make([]byte, leafSize)
	var off int64
	for i := 0; i < numLeaves; i++ {
		n, err := fh.Read(off, buf)
		if err != nil && err != io.EOF {
			return fileResult{}, err
		}
		leaves[i] = sha256.Sum256(buf[:n])
		off += int64(n)
	}

	tree := buildMerkleTree(leaves)
	return fileResult{root: tree.root(), layer: tree.piecesRootLayer(pieceLength, f.Length), length: f.Length}, nil
}

// v2Pipeline hashes every file's Merkle tree in parallel, one file per
// unit of work.
func v2Pipeline(files []scanner.FileEntry, pieceLength int64, workers int, progress func(), display Displayer) ([]fileResult, error) {
	results := make([]fileResult, len(files))
	abort := &abortFlag{}

	err := runPool(len(files), workers, abort, func(i int) {
		r, err := hashFileV2(files[i], pieceLength)
		if err != nil {
			abort.fail(err)
			return
		}
		results[i] = r
		if progress != nil {
			progress()
		}
	})
	return results, err
}

// hybridFileResult is one file's combined v2 tree and per-file v1 piece
// hashes (each file ends on a piece boundary via padding, per §4.3).
type hybridFileResult struct {
	v2       fileResult
	v1Pieces [][20]byte
}

// hashFileHybrid performs a single positional read pass that feeds both
// the 16 KiB v2 leaf hasher and the running v1 piece hasher, per §4.3's
// "single positional read... populates BOTH". The v1 hasher resets at
// every piece boundary and zero-pads the file's final partial piece.
func hashFileHybrid(f scanner.FileEntry, pieceLength int64) (hybridFileResult, error) {
	if f.Length == 0 {
		tree := buildMerkleTree(nil)
		return hybridFileResult{v2: fileResult{root: tree.root()}}, nil
	}

	fh, err := openFile(f.Abs)
	if err != nil {
		return hybridFileResult{}, err
	}
	defer fh.Close()

	numLeaves := int((f.Length + leafSize - 1) / leafSize)
	leavesPerPiece := int(pieceLength / leafSize)
	numPieces := int((f.Length + pieceLength - 1) / pieceLength)

	leaves := make([][32]byte, numLeaves)
	v1Pieces := make([][20]byte, numPieces)

	buf := make([]byte, leafSize)
	v1 := sha1.New()
	var off int64
	piece := 0
	inPiece := 0

	for i := 0; i < numLeaves; i++ {
		n, err := fh.Read(off, buf)
		if err != nil && err != io.EOF {
			return hybridFileResult{}, err
		}
		leaves[i] = sha256.Sum256(buf[:n])

		v1.Write(buf[:n])
		if n < leafSize {
			v1.Write(make([]byte, leafSize-n)) // zero-pad final leaf to the piece boundary
		}
		inPiece++
		off += int64(n)

		if inPiece == leavesPerPiece || i == numLeaves-1 {
			if inPiece < leavesPerPiece {
				// file ends mid-piece: zero-pad the remaining leaves of
				// this piece so every piece is exactly pieceLength bytes.
				v1.Write(make([]byte, (leavesPerPiece-inPiece)*leafSize))
			}
			copy(v1Pieces[piece][:], v1.Sum(nil))
			v1 = sha1.New()
			piece++
			inPiece = 0
		}
	}

	tree := buildMerkleTree(leaves)
	return hybridFileResult{
		v2:       fileResult{root: tree.root(), layer: tree.piecesRootLayer(pieceLength, f.Length), length: f.Length},
		v1Pieces: v1Pieces,
	}, nil
}

// hybridPipeline hashes every file in parallel, one file per unit of
// work, producing both its v2 tree and its own piece-aligned v1 hashes.
func hybridPipeline(files []scanner.FileEntry, pieceLength int64, workers int, progress func(), display Displayer) ([]hybridFileResult, error) {
	results := make([]hybridFileResult, len(files))
	abort := &abortFlag{}

	err := runPool(len(files), workers, abort, func(i int) {
		r, err := hashFileHybrid(files[i], pieceLength)
		if err != nil {
			abort.fail(err)
			return
		}
		results[i] = r
		if progress != nil {
			progress()
		}
	})
	return results, err
}
