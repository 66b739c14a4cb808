package util

// Bitmap is a validity mask. A nil Bits slice means every row is valid.
type Bitmap struct {
	Bits []uint8
}

func (bm *Bitmap) Data() []uint8 {
	return bm.Bits
}

func (bm *Bitmap) Init(count int) {
	cnt := EntryCount(count)
	bm.Bits = make([]uint8, cnt)
	for i := range bm.Bits {
		bm.Bits[i] = 0xFF
	}
}

func (bm *Bitmap) Invalid() bool {
	return len(bm.Bits) == 0
}

func (bm *Bitmap) AllValid() bool {
	return bm.Invalid()
}

func GetEntryIndex(idx uint64) (uint64, uint64) {
	return idx / 8, idx % 8
}

func EntryIsSet(e uint8, pos uint64) bool {
	return e&(1<<pos) != 0
}

func EntryCount(cnt int) int {
	return (cnt + 7) / 8
}

func (bm *Bitmap) RowIsValid(idx uint64) bool {
	if bm.Invalid() {
		return true
	}
	eIdx, pos := GetEntryIndex(idx)
	if eIdx >= uint64(len(bm.Bits)) {
		return true
	}
	return EntryIsSet(bm.Bits[eIdx], pos)
}

func (bm *Bitmap) Set(ridx uint64, valid bool) {
	if valid {
		bm.SetValid(ridx)
	} else {
		bm.SetInvalid(ridx)
	}
}

func (bm *Bitmap) SetValid(ridx uint64) {
	if bm.Invalid() {
		return
	}
	bm.grow(ridx)
	eIdx, pos := GetEntryIndex(ridx)
	bm.Bits[eIdx] |= 1 << pos
}

// SetInvalid materializes the mask on first use and grows it to cover ridx.
func (bm *Bitmap) SetInvalid(ridx uint64) {
	if bm.Invalid() {
		bm.Init(int(ridx) + 1)
	}
	bm.grow(ridx)
	eIdx, pos := GetEntryIndex(ridx)
	bm.Bits[eIdx] &= ^(1 << pos)
}

func (bm *Bitmap) grow(ridx uint64) {
	need := EntryCount(int(ridx) + 1)
	for len(bm.Bits) < need {
		bm.Bits = append(bm.Bits, 0xFF)
	}
}

func (bm *Bitmap) Reset() {
	bm.Bits = nil
}

// CountInvalid returns how many of the first count rows are null.
func (bm *Bitmap) CountInvalid(count int) int {
	if bm.Invalid() {
		return 0
	}
	ret := 0
	for i := 0; i < count; i++ {
		if !bm.RowIsValid(uint64(i)) {
			ret++
		}
	}
	return ret
}

func (bm *Bitmap) CopyFrom(other *Bitmap, count int) {
	if other.AllValid() {
		bm.Bits = nil
		return
	}
	eCnt := min(EntryCount(count), len(other.Bits))
	bm.Bits = make([]uint8, eCnt)
	copy(bm.Bits, other.Bits[:eCnt])
}
