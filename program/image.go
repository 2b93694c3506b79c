package program

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// ImageMagic and ImageVersion identify a serialized program image.
const (
	ImageMagic   = "AAIMG"
	ImageVersion = 1
)

// ErrBadImage is returned when a program image cannot be decoded.
var ErrBadImage = errors.New("bad program image")

type image struct {
	Magic     string     `cbor:"1,keyasint"`
	Version   int        `cbor:"2,keyasint"`
	Optimized bool       `cbor:"3,keyasint"`
	Code      []wireInst `cbor:"4,keyasint"`
}

type wireInst struct {
	_  struct{} `cbor:",toarray"`
	Op uint8
	A  uint8
	B  uint8
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("program: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalImage serializes a program to CBOR bytes.
func MarshalImage(p Program, optimized bool) ([]byte, error) {
	img := image{
		Magic:     ImageMagic,
		Version:   ImageVersion,
		Optimized: optimized,
		Code:      make([]wireInst, len(p)),
	}

	for i, inst := range p {
		img.Code[i] = wireInst{Op: uint8(inst.Op), A: inst.A, B: inst.B}
	}

	return cborEncMode.Marshal(img)
}

// UnmarshalImage deserializes a program image. It reports whether the stored
// program was already optimized.
func UnmarshalImage(data []byte) (Program, bool, error) {
	var img image
	if err := cbor.Unmarshal(data, &img); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrBadImage, err)
	}

	if img.Magic != ImageMagic {
		return nil, false, fmt.Errorf("%w: magic %q", ErrBadImage, img.Magic)
	}

	if img.Version != ImageVersion {
		return nil, false, fmt.Errorf("%w: unsupported version %d", ErrBadImage, img.Version)
	}

	p := make(Program, len(img.Code))
	for i, w := range img.Code {
		p[i] = Instruction{Op: Opcode(w.Op), A: w.A, B: w.B}
	}

	if err := p.Validate(); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrBadImage, err)
	}

	return p, img.Optimized, nil
}

// IsImage reports whether data looks like a serialized program image rather
// than source text.
func IsImage(data []byte) bool {
	var img struct {
		Magic string `cbor:"1,keyasint"`
	}

	if err := cbor.Unmarshal(data, &img); err != nil {
		return false
	}

	return img.Magic == ImageMagic
}
