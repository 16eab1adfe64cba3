package ramdisk

// handle is one slot in the fixed-size open-handle table: an open node
// plus the per-open cursor and mode state.
type handle struct {
	node *node
	dir  bool
	pos  int // byte cursor (file handles)
	next int // index of the next sibling to yield (directory handles)
	mode OpenFlags
}

// handleTable maps small integer handles to open nodes. Slot 0 is
// reserved as the invalid-handle sentinel and never issued.
type handleTable struct {
	slots []handle
}

func newHandleTable(max int) *handleTable {
	if max < 2 {
		max = 2
	}
	return &handleTable{slots: make([]handle, max)}
}

// alloc returns the lowest-numbered free slot, or 0 if the table is full.
// The slot stays free until the caller assigns a node to it.
func (t *handleTable) alloc() int {
	for fd := 1; fd < len(t.slots); fd++ {
		if t.slots[fd].node == nil {
			return fd
		}
	}
	return 0
}

// get returns the slot for fd if it is valid and in use, else nil.
func (t *handleTable) get(fd int) *handle {
	if fd <= 0 || fd >= len(t.slots) {
		return nil
	}
	h := &t.slots[fd]
	if h.node == nil {
		return nil
	}
	return h
}

// release returns the slot to the free pool.
func (t *handleTable) release(fd int) {
	if fd > 0 && fd < len(t.slots) {
		t.slots[fd] = handle{}
	}
}

// reset frees every slot at once (namespace shutdown).
func (t *handleTable) reset() {
	for i := range t.slots {
		t.slots[i] = handle{}
	}
}
