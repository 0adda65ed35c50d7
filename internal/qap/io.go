package qap

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/copyleftdev/LOBO/internal/errors"
)

// Load reads an instance from the whitespace-delimited token format: first
// token N, then N*N distance entries row-major, then N*N flow entries
// row-major. Line breaks carry no meaning.
func Load(r io.Reader) (*Instance, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	sc.Split(bufio.ScanWords)

	next := func(what string) (int, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, err
			}
			return 0, fmt.Errorf("unexpected end of input reading %s", what)
		}
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return 0, fmt.Errorf("bad %s token %q", what, sc.Text())
		}
		return v, nil
	}

	n, err := next("size")
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, fmt.Errorf("instance size must be positive, got %d", n)
	}

	in := &Instance{
		N:        n,
		Distance: make([][]int, n),
		Flow:     make([][]int, n),
	}
	for i := 0; i < n; i++ {
		in.Distance[i] = make([]int, n)
		for j := 0; j < n; j++ {
			if in.Distance[i][j], err = next("distance"); err != nil {
				return nil, err
			}
		}
	}
	for i := 0; i < n; i++ {
		in.Flow[i] = make([]int, n)
		for j := 0; j < n; j++ {
			if in.Flow[i][j], err = next("flow"); err != nil {
				return nil, err
			}
		}
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}
	return in, nil
}

// LoadFile reads an instance from a file on disk.
func LoadFile(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open instance file").WithComponent("qap").WithOperation("load")
	}
	defer f.Close()

	in, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parse instance %s", path).WithComponent("qap").WithOperation("load")
	}
	return in, nil
}

// Write emits the instance in the same token format Load reads, one matrix
// row per line.
func (in *Instance) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, in.N)
	for _, m := range [][][]int{in.Distance, in.Flow} {
		for _, row := range m {
			for j, v := range row {
				if j > 0 {
					fmt.Fprint(bw, " ")
				}
				fmt.Fprint(bw, v)
			}
			fmt.Fprintln(bw)
		}
	}
	return bw.Flush()
}
