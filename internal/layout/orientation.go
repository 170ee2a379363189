package layout

import "image"

// Orientation is an EXIF orientation tag value. Zero and 1 mean the
// stored pixels are already upright.
type Orientation int

const (
	OrientNormal     Orientation = 1
	OrientFlipH      Orientation = 2
	OrientRotate180  Orientation = 3
	OrientFlipV      Orientation = 4
	OrientTranspose  Orientation = 5
	OrientRotateCW   Orientation = 6
	OrientTransverse Orientation = 7
	OrientRotateCCW  Orientation = 8
)

// Swaps reports whether the upright image has width and height exchanged.
func (o Orientation) Swaps() bool {
	return o >= OrientTranspose && o <= OrientRotateCCW
}

// Size returns the upright size of a stored image of size raw. Since the
// swap is symmetric it also maps an upright size back to the stored one.
func (o Orientation) Size(raw Size) Size {
	if o.Swaps() {
		return Size{W: raw.H, H: raw.W}
	}
	return raw
}

// Apply maps a point of the stored raw image onto the upright image.
func (o Orientation) Apply(pt image.Point, raw Size) image.Point {
	w, h := raw.W, raw.H
	switch o {
	case OrientFlipH:
		return image.Pt(w-pt.X, pt.Y)
	case OrientRotate180:
		return image.Pt(w-pt.X, h-pt.Y)
	case OrientFlipV:
		return image.Pt(pt.X, h-pt.Y)
	case OrientTranspose:
		return image.Pt(pt.Y, pt.X)
	case OrientRotateCW:
		return image.Pt(h-pt.Y, pt.X)
	case OrientTransverse:
		return image.Pt(h-pt.Y, w-pt.X)
	case OrientRotateCCW:
		return image.Pt(pt.Y, w-pt.X)
	default:
		return pt
	}
}

// Invert maps a point of the upright image back to the stored raw image.
func (o Orientation) Invert(pt image.Point, raw Size) image.Point {
	w, h := raw.W, raw.H
	switch o {
	case OrientFlipH:
		return image.Pt(w-pt.X, pt.Y)
	case OrientRotate180:
		return image.Pt(w-pt.X, h-pt.Y)
	case OrientFlipV:
		return image.Pt(pt.X, h-pt.Y)
	case OrientTranspose:
		return image.Pt(pt.Y, pt.X)
	case OrientRotateCW:
		return image.Pt(pt.Y, h-pt.X)
	case OrientTransverse:
		return image.Pt(w-pt.Y, h-pt.X)
	case OrientRotateCCW:
		return image.Pt(w-pt.Y, pt.X)
	default:
		return pt
	}
}

// BestFitRotation returns rotation, or rotation plus 90 degrees when the
// page img (before any rotation) fits the viewport larger that way.
func BestFitRotation(img Size, rotation int, vp Size) int {
	turned := (rotation + 90) % 360
	if WholePageScale(RotatedSize(img, turned), vp, true) > WholePageScale(RotatedSize(img, rotation), vp, true) {
		return turned
	}
	return rotation
}
