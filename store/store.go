package store

// Store is the append-only record log over an NVM region. Records are
// written at RecordSize strides; the slot carrying the highest identifier
// is the live configuration. Once every slot holds a valid record the
// write pointer wraps onto the oldest one, FIFO order.
type Store struct {
	nvm NVM

	nextID    uint32 // identifier the next Save will use
	readAddr  int    // slot of the highest-id valid record
	writeAddr int    // slot the next Save targets
	loaded    bool   // Init completed

	buf [RecordSize]byte
}

// New returns a store over the given region. Call Init before Load or Save.
func New(nvm NVM) *Store {
	return &Store{nvm: nvm}
}

// Slots returns the region capacity in records.
func (s *Store) Slots() int {
	return s.nvm.Size() / RecordSize
}

// Init scans every slot in the region, locates the minimum and maximum
// valid record identifiers and derives the read and write addresses from
// them. It must finish before interrupts are enabled: it is the only
// non-constant-time startup operation.
func (s *Store) Init() error {
	var (
		minID, maxID     uint32
		minAddr, maxAddr int
		count            int
	)

	end := s.Slots() * RecordSize
	for addr := 0; addr < end; addr += RecordSize {
		if err := s.nvm.ReadAt(addr, s.buf[:]); err != nil {
			return err
		}
		id, ok := decodeSlot(s.buf[:])
		if !ok {
			continue
		}
		if count == 0 || id < minID {
			minID, minAddr = id, addr
		}
		if count == 0 || id > maxID {
			maxID, maxAddr = id, addr
		}
		count++
	}

	if count == 0 {
		s.readAddr = 0
		s.writeAddr = 0
		s.nextID = 1
		s.loaded = true
		return nil
	}

	s.readAddr = maxAddr
	s.nextID = maxID + 1
	if count < s.Slots() {
		s.writeAddr = maxAddr + RecordSize
		if s.writeAddr >= end {
			s.writeAddr = 0
		}
	} else {
		// Region full: overwrite the oldest record next.
		s.writeAddr = minAddr
	}
	s.loaded = true
	return nil
}

// Load decodes the record at the current read address. ok is false when the
// slot is empty or corrupt; the caller installs defaults in that case.
func (s *Store) Load() (rec Record, ok bool) {
	if !s.loaded {
		return Record{}, false
	}
	if err := s.nvm.ReadAt(s.readAddr, s.buf[:]); err != nil {
		return Record{}, false
	}
	if _, valid := decodeSlot(s.buf[:]); !valid {
		return Record{}, false
	}
	rec.unmarshalPayload(s.buf[idSize : idSize+payloadSize])
	return rec, true
}

// Save appends rec at the write address and advances the log: the slot just
// written becomes the read address and the write address moves one slot
// forward, wrapping at the region end.
func (s *Store) Save(rec *Record) error {
	putUint32(s.buf[0:idSize], s.nextID)
	rec.marshalPayload(s.buf[idSize : idSize+payloadSize])
	s.buf[idSize+payloadSize] = checksum(s.buf[:idSize+payloadSize])
	for i := idSize + payloadSize + 1; i < RecordSize; i++ {
		s.buf[i] = 0
	}

	if err := s.nvm.WriteAt(s.writeAddr, s.buf[:]); err != nil {
		return err
	}

	s.readAddr = s.writeAddr
	s.writeAddr += RecordSize
	if s.writeAddr >= s.Slots()*RecordSize {
		s.writeAddr = 0
	}
	s.nextID++
	return nil
}

// decodeSlot validates a raw slot and returns its record identifier.
// A checksum mismatch means the slot is absent, not an error: erased flash
// and torn writes are expected states of the medium.
func decodeSlot(buf []byte) (id uint32, ok bool) {
	if checksum(buf[:idSize+payloadSize]) != buf[idSize+payloadSize] {
		return 0, false
	}
	return getUint32(buf[0:idSize]), true
}
