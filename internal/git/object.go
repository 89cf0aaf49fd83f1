package git

import (
	"context"
	"fmt"
)

// ObjectType is the kind of a stored object.
type ObjectType int

const (
	// ObjectAny matches every kind in lookups.
	ObjectAny ObjectType = iota
	ObjectCommit
	ObjectTree
	ObjectBlob
	ObjectTag
)

func (t ObjectType) String() string {
	switch t {
	case ObjectAny:
		return "any"
	case ObjectCommit:
		return "commit"
	case ObjectTree:
		return "tree"
	case ObjectBlob:
		return "blob"
	case ObjectTag:
		return "tag"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// parseObjectType maps the engine's type names. Unknown names map to
// ObjectAny.
func parseObjectType(s string) ObjectType {
	switch s {
	case "commit":
		return ObjectCommit
	case "tree":
		return ObjectTree
	case "blob":
		return ObjectBlob
	case "tag":
		return ObjectTag
	default:
		return ObjectAny
	}
}

// ParseObjectType accepts "commit", "tree", "blob", "tag" and "any".
func ParseObjectType(s string) (ObjectType, error) {
	if s == "any" || s == "" {
		return ObjectAny, nil
	}
	if t := parseObjectType(s); t != ObjectAny {
		return t, nil
	}
	return ObjectAny, newError(CodeInvalidSpec, ClassInvalid, "invalid object type '%s'", s)
}

// Object is a loaded object of any kind.
type Object struct {
	repo *Repository
	id   Oid
	kind ObjectType
	data []byte

	// decoded form of commit and tree payloads, filled by FindObject
	commit *Commit
	tree   *Tree
}

// FindObject loads the object id. A kind other than ObjectAny must match
// the stored kind.
func (r *Repository) FindObject(ctx context.Context, id Oid, kind ObjectType) (*Object, error) {
	if r.closed {
		return nil, ErrClosed
	}
	got, data, err := r.odb.read(ctx, id)
	if err != nil {
		return nil, err
	}
	if kind != ObjectAny && kind != got {
		return nil, newError(CodeNotFound, ClassInvalid,
			"the requested type does not match the type in the ODB (%s is a %s, not a %s)", id.Short(7), got, kind)
	}
	obj := &Object{repo: r, id: id, kind: got, data: data}
	switch got {
	case ObjectCommit:
		obj.commit, err = parseCommit(r, id, data)
	case ObjectTree:
		obj.tree, err = parseTree(r, id, data)
	}
	if err != nil {
		return nil, newError(CodeGeneric, ClassObject, "failed to decode %s %s: %v", got, id.Short(7), err)
	}
	return obj, nil
}

// ID returns the object's content hash.
func (o *Object) ID() Oid { return o.id }

// Kind returns the stored kind.
func (o *Object) Kind() ObjectType { return o.kind }

// ShortID returns the shortest unambiguous abbreviation of the id.
func (o *Object) ShortID(ctx context.Context) (string, error) {
	return o.repo.gitString(ctx, "rev-parse", "--short", o.id.String())
}

// Peel follows tags (and commits to trees) until an object of kind is
// reached. ObjectAny peels until the object is no longer a tag.
func (o *Object) Peel(ctx context.Context, kind ObjectType) (*Object, error) {
	suffix := "^{}"
	if kind != ObjectAny {
		suffix = "^{" + kind.String() + "}"
	}
	out, err := o.repo.gitString(ctx, "rev-parse", "--verify", "--quiet", o.id.String()+suffix)
	if err != nil {
		if IsCode(err, CodeGeneric) || IsCode(err, CodeNotFound) {
			return nil, newError(CodeInvalidSpec, ClassObject,
				"the %s object '%s' cannot be peeled to a %s", o.kind, o.id.Short(7), kind)
		}
		return nil, err
	}
	return o.repo.FindObject(ctx, mustOid(out, "rev-parse "+suffix), kind)
}

// AsCommit returns the object as a commit, or false when it is not one.
func (o *Object) AsCommit() (*Commit, bool) {
	if o.kind != ObjectCommit {
		return nil, false
	}
	return o.commit, true
}

// AsTree returns the object as a tree, or false when it is not one.
func (o *Object) AsTree() (*Tree, bool) {
	if o.kind != ObjectTree {
		return nil, false
	}
	return o.tree, true
}

// AsBlob returns the object as a blob, or false when it is not one.
func (o *Object) AsBlob() (*Blob, bool) {
	if o.kind != ObjectBlob {
		return nil, false
	}
	return &Blob{repo: o.repo, id: o.id, data: o.data}, true
}
