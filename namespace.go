//----------------------------------------------------------------------
// This file is part of wifista.
// Copyright (C) 2024-present Bernd Fix   >Y<
//
// wifista is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// wifista is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package wifista

import (
	"errors"
	"path"
	"strings"

	"git.sr.ht/~moody/ninep"
)

// Error messages
var (
	errNoRoot = errors.New("no root directory")
	errNoFile = errors.New("no such file or directory")
	errNoDir  = errors.New("not a directory")
	errNoAbs  = errors.New("no absolute path")
	errExists = errors.New("file exists")
)

//----------------------------------------------------------------------

// Entry in the filesystem
type Entry struct {
	ref      *ninep.Dir        // 9p reference
	children map[string]*Entry // list of children (for folders) or nil
	file     File              // file implementation or nil (for folders)
}

// IsDir returns true if entry is a directory
func (e *Entry) IsDir() bool {
	return e.children != nil
}

// Name of the entry
func (e *Entry) Name() string {
	return e.ref.Name
}

// Read the content of a file entry.
func (e *Entry) Read() ([]byte, error) {
	if e.file == nil {
		return nil, errNoFile
	}
	return e.file.Read()
}

//----------------------------------------------------------------------

// Namespace is a read-mostly synthetic file system. It is built before
// serving and not modified afterwards.
type Namespace struct {
	ninep.NopFS                   // use default handlers where needed
	user, group string            // owner of all entries
	dict        map[uint64]*Entry // map Qid.Path to filesystem entry
	nextID      uint64            // next Qid.Path
}

// NewNamespace creates a new filesystem (with root directory) owned by
// the given user/group.
func NewNamespace(user, group string) *Namespace {
	ns := &Namespace{
		user:  user,
		group: group,
		dict:  make(map[uint64]*Entry),
	}
	ns.newEntry("/", 0555, nil)
	return ns
}

// Create a new entry in the filesystem.
// If impl is nil, the entry represents a directory; otherwise a file.
func (ns *Namespace) newEntry(name string, perm uint32, impl File) *Entry {
	e := new(Entry)
	kind := ninep.QTFile
	if impl == nil {
		kind = ninep.QTDir
		e.children = make(map[string]*Entry)
		perm |= ninep.DMDir
	} else {
		e.file = impl
	}
	e.ref = &ninep.Dir{
		Qid: ninep.Qid{
			Path: ns.nextID,
			Vers: 0,
			Type: byte(kind),
		},
		Name: name,
		Mode: perm,
		Uid:  ns.user,
		Gid:  ns.group,
		Muid: ns.user,
	}
	ns.nextID++
	ns.dict[e.ref.Path] = e
	return e
}

// Root returns the entry of the root directory
func (ns *Namespace) Root() *Entry {
	return ns.dict[0]
}

// NewDir creates a directory at the given absolute path.
func (ns *Namespace) NewDir(p string, perm uint32) error {
	return ns.add(p, perm, nil)
}

// NewFile creates a file at the given absolute path.
func (ns *Namespace) NewFile(p string, perm uint32, impl File) error {
	return ns.add(p, perm, impl)
}

// add entry to its parent directory
func (ns *Namespace) add(p string, perm uint32, impl File) error {
	dir, name := path.Split(path.Clean(p))
	if name == "" {
		return errExists
	}
	parent, err := ns.Get(dir)
	if err != nil {
		return err
	}
	if !parent.IsDir() {
		return errNoDir
	}
	if _, ok := parent.children[name]; ok {
		return errExists
	}
	parent.children[name] = ns.newEntry(name, perm, impl)
	return nil
}

// Get entry with given path
func (ns *Namespace) Get(p string) (*Entry, error) {
	if !strings.HasPrefix(p, "/") {
		return nil, errNoAbs
	}
	curr := ns.Root()
	for _, label := range strings.Split(p[1:], "/") {
		if len(label) == 0 {
			continue
		}
		if !curr.IsDir() {
			return nil, errNoDir
		}
		next, ok := curr.children[label]
		if !ok {
			return nil, errNoFile
		}
		curr = next
	}
	return curr, nil
}

// Serve the 9p protocol for the given listen string
func (ns *Namespace) Serve(listen string) error {
	srv := ninep.NewSrv(func() ninep.FS { return ns })
	return srv.ListenAndServe(listen)
}

// ninep FS implementation

// Attach to 9p session
func (ns *Namespace) Attach(t *ninep.Tattach) {
	if q := ns.rootQid(); q != nil {
		t.Respond(q)
	} else {
		t.Err(errNoRoot)
	}
}

// rootQid returns the Qid of the root directory (or nil)
func (ns *Namespace) rootQid() *ninep.Qid {
	if e, ok := ns.dict[0]; ok {
		return &e.ref.Qid
	}
	return nil
}

// Walk to child entry with name "next".
func (ns *Namespace) Walk(cur *ninep.Qid, next string) *ninep.Qid {
	e, ok := ns.dict[cur.Path]
	if !ok || !e.IsDir() {
		return nil
	}
	if c, ok := e.children[next]; ok {
		return &c.ref.Qid
	}
	return nil
}

// Open entry for file operation
func (ns *Namespace) Open(t *ninep.Topen, q *ninep.Qid) {
	t.Respond(q, 8192)
}

// Read from entry. Either return the content of a file
// or the listing from a directory.
func (ns *Namespace) Read(t *ninep.Tread, q *ninep.Qid) {
	data, kids, err := ns.content(q)
	switch {
	case err != nil:
		t.Err(err)
	case kids != nil:
		ninep.ReadDir(t, kids)
	default:
		ninep.ReadBuf(t, data)
	}
}

// content of the entry for q: file data or directory listing
// (non-nil, possibly empty).
func (ns *Namespace) content(q *ninep.Qid) (data []byte, kids []ninep.Dir, err error) {
	e, ok := ns.dict[q.Path]
	if !ok {
		return nil, nil, errNoFile
	}
	if e.IsDir() {
		kids = make([]ninep.Dir, 0, len(e.children))
		for _, c := range e.children {
			kids = append(kids, *c.ref)
		}
		return nil, kids, nil
	}
	data, err = e.file.Read()
	return
}

// Stat returns information for a filesytem entry.
func (ns *Namespace) Stat(t *ninep.Tstat, q *ninep.Qid) {
	if d := ns.stat(q); d != nil {
		t.Respond(d)
	} else {
		t.Err(errNoFile)
	}
}

// stat returns the directory entry for q (or nil)
func (ns *Namespace) stat(q *ninep.Qid) *ninep.Dir {
	if e, ok := ns.dict[q.Path]; ok {
		return e.ref
	}
	return nil
}
