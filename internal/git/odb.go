package git

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/raphi011/gitkit/internal/cmd"
)

// objectReader owns the repository's long-lived `cat-file --batch` process.
// It is the engine resource a Repository releases on Close.
type objectReader struct {
	// start launches the batch process. It is set once at open time so the
	// reader never needs a pointer back to the Repository.
	start func(ctx context.Context) (*cmd.Duplex, error)

	mu   sync.Mutex
	proc *cmd.Duplex
	dead bool
}

func newObjectReader(start func(ctx context.Context) (*cmd.Duplex, error)) *objectReader {
	return &objectReader{start: start}
}

// shutdown ends the batch process. After shutdown every read fails with
// ErrClosed. Calling it again is a no-op.
func (o *objectReader) shutdown() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dead = true
	o.killLocked()
}

func (o *objectReader) killLocked() {
	if o.proc != nil {
		_ = o.proc.Close()
		o.proc = nil
	}
}

// read fetches one object. A missing object is CodeNotFound; a broken pipe
// drops the process so the next read starts a fresh one.
func (o *objectReader) read(ctx context.Context, id Oid) (ObjectType, []byte, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.dead {
		return ObjectAny, nil, ErrClosed
	}
	if o.proc == nil {
		p, err := o.start(context.WithoutCancel(ctx))
		if err != nil {
			return ObjectAny, nil, fmt.Errorf("start object reader: %w", err)
		}
		o.proc = p
	}

	kind, data, err := o.requestLocked(id)
	if err != nil {
		if IsCode(err, CodeNotFound) {
			return ObjectAny, nil, err
		}
		o.killLocked()
		return ObjectAny, nil, err
	}
	return kind, data, nil
}

func (o *objectReader) requestLocked(id Oid) (ObjectType, []byte, error) {
	if _, err := io.WriteString(o.proc, id.String()+"\n"); err != nil {
		return ObjectAny, nil, fmt.Errorf("object reader request: %w", err)
	}

	r := o.proc.Reader()
	header, err := r.ReadString('\n')
	if err != nil {
		return ObjectAny, nil, fmt.Errorf("object reader header: %w", err)
	}
	header = strings.TrimSuffix(header, "\n")

	// "<oid> missing" or "<oid> <type> <size>"
	fields := strings.Fields(header)
	if len(fields) == 2 && fields[1] == "missing" {
		return ObjectAny, nil, newError(CodeNotFound, ClassObject, "object not found - no match for id (%s)", id)
	}
	invariant(len(fields) == 3, "cat-file --batch returned header %q", header)

	kind := parseObjectType(fields[1])
	invariant(kind != ObjectAny, "cat-file --batch returned unknown type %q", fields[1])
	size, err := strconv.ParseInt(fields[2], 10, 64)
	invariant(err == nil && size >= 0, "cat-file --batch returned size %q", fields[2])

	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return ObjectAny, nil, fmt.Errorf("object reader body: %w", err)
	}
	if b, err := r.ReadByte(); err != nil || b != '\n' {
		return ObjectAny, nil, fmt.Errorf("object reader: missing terminator after %s", id)
	}
	return kind, data, nil
}
