package wall

import (
	"github.com/gekko3d/retro/sectorrt/rt/fixed"
)

// MergeSort resolves occlusion between the processed segments of one sector.
// It walks the source segments (and any split segments generated along the
// way), clips each one to the current window, compares it against every
// already emitted segment that shares screen columns, and trims, splits or
// discards until the output spans are mutually disjoint. Returns the number
// of segments written to segOutList.
func (c *Core) MergeSort(segOutList []Segment, availSpace, start, count int32) int32 {
	rc := c.rc
	if count > c.MaxWallCount {
		count = c.MaxWallCount
	}
	if count <= 0 {
		return 0
	}

	outIndex := int32(0)
	srcIndex := int32(0)
	splitWallCount := int32(0)
	splitWallIndex := -count

	var splitWalls [MaxSplitWalls]Segment
	var tempSeg Segment
	newSeg := &tempSeg

	srcSeg := &c.segListSrc[start]

	for {
		insideWindow := (srcSeg.Z0 >= rc.MinSegZ || srcSeg.Z1 >= rc.MinSegZ) &&
			srcSeg.WallX0 <= rc.WindowMaxX && srcSeg.WallX1 >= rc.WindowMinX
		if insideWindow {
			// Copy the source segment so it can be modified.
			*newSeg = *srcSeg

			// Clip the segment to the current window.
			if newSeg.WallX0 < rc.WindowMinX {
				newSeg.WallX0 = rc.WindowMinX
			}
			if newSeg.WallX1 > rc.WindowMaxX {
				newSeg.WallX1 = rc.WindowMaxX
			}

			// Check the new segment against all of the segments already
			// emitted for this sector.
			segHidden := int32(0)
			for n := int32(0); n < outIndex && segHidden == 0; n++ {
				sortedSeg := &segOutList[n]

				// Trivially skip segments that do not overlap in screenspace.
				segOverlap := newSeg.WallX0 <= sortedSeg.WallX1 && sortedSeg.WallX0 <= newSeg.WallX1
				if !segOverlap {
					continue
				}

				outV0 := sortedSeg.SrcWall.V0
				outV1 := sortedSeg.SrcWall.V1
				newV0 := newSeg.SrcWall.V0
				newV1 := newSeg.SrcWall.V1

				newMinZ := min(newV0.Z, newV1.Z)
				newMaxZ := max(newV0.Z, newV1.Z)
				outMinZ := min(outV0.Z, outV1.Z)
				outMaxZ := max(outV0.Z, outV1.Z)
				var side int32

				if newSeg.WallX0 <= sortedSeg.WallX0 && newSeg.WallX1 >= sortedSeg.WallX1 {
					if newMaxZ < outMinZ || newMinZ > outMaxZ {
						// Clear case, the segments do not overlap in z.
						if newV0.Z < outV0.Z {
							side = sideFront
						} else {
							side = sideBack
						}
					} else if newV0.Z < outV0.Z {
						side = sideFront
						if (segmentCrossesLine(outV0.X, outV0.Z, 0, 0, newV0.X, newV0.Z, newV1.X, newV1.Z) != 0 ||
							segmentCrossesLine(outV1.X, outV1.Z, 0, 0, newV0.X, newV0.Z, newV1.X, newV1.Z) != 0) &&
							(segmentCrossesLine(newV0.X, newV0.Z, 0, 0, outV0.X, outV0.Z, outV1.X, outV1.Z) == 0 ||
								segmentCrossesLine(newV1.X, newV1.Z, 0, 0, outV0.X, outV0.Z, outV1.X, outV1.Z) == 0) {
							side = sideBack
						}
					} else { // newV0.Z >= outV0.Z
						side = sideBack
						if (segmentCrossesLine(newV0.X, newV0.Z, 0, 0, outV0.X, outV0.Z, outV1.X, outV1.Z) != 0 ||
							segmentCrossesLine(newV1.X, newV1.Z, 0, 0, outV0.X, outV0.Z, outV1.X, outV1.Z) != 0) &&
							(segmentCrossesLine(outV0.X, outV0.Z, 0, 0, newV0.X, newV0.Z, newV1.X, newV1.Z) == 0 ||
								segmentCrossesLine(outV1.X, outV1.Z, 0, 0, newV0.X, newV0.Z, newV1.X, newV1.Z) == 0) {
							side = sideFront
						}
					}

					if side == sideFront {
						// The new segment completely hides the sorted one;
						// delete it and keep comparing.
						copy(segOutList[n:], segOutList[n+1:outIndex])
						outIndex--
						n--
					} else {
						// The new segment is behind and they overlap. If it
						// sticks out on both sides it must be split.
						if sortedSeg.WallX0 > newSeg.WallX0 && sortedSeg.WallX1 < newSeg.WallX1 {
							if splitWallCount == MaxSplitWalls {
								rc.Log.Errorf("Wall_MergeSort : Maximum split walls exceeded!")
								segHidden = 0xffff
								newSeg.WallX1 = sortedSeg.WallX0 - 1
								break
							}
							splitWall := &splitWalls[splitWallCount]
							*splitWall = *newSeg
							splitWall.WallX0 = sortedSeg.WallX1 + 1
							splitWallCount++

							newSeg.WallX1 = sortedSeg.WallX0 - 1
						} else if sortedSeg.WallX0 > newSeg.WallX0 {
							// New segment sticks out on the left only.
							newSeg.WallX1 = sortedSeg.WallX0 - 1
						} else {
							// New segment sticks out on the right only.
							newSeg.WallX0 = sortedSeg.WallX1 + 1
						}
					}
				} else if newSeg.WallX0 >= sortedSeg.WallX0 && newSeg.WallX1 <= sortedSeg.WallX1 {
					// The sorted segment contains the new one on screen.
					if newMaxZ < outMinZ || newMinZ > outMaxZ {
						if newV0.Z < outV0.Z {
							side = sideFront
						} else {
							side = sideBack
						}
					} else if newV0.Z < outV0.Z {
						side = sideFront
						if (segmentCrossesLine(outV0.X, outV0.Z, 0, 0, newV0.X, newV0.Z, newV1.X, newV1.Z) != 0 ||
							segmentCrossesLine(outV1.X, outV1.Z, 0, 0, newV0.X, newV0.Z, newV1.X, newV1.Z) != 0) &&
							(segmentCrossesLine(newV0.X, newV0.Z, 0, 0, outV0.X, outV0.Z, outV1.X, outV1.Z) == 0 ||
								segmentCrossesLine(newV1.X, newV1.Z, 0, 0, outV0.X, outV0.Z, outV1.X, outV1.Z) == 0) {
							side = sideBack
						}
					} else { // newV0.Z >= outV0.Z
						side = sideBack
						if (segmentCrossesLine(newV0.X, newV0.Z, 0, 0, outV0.X, outV0.Z, outV1.X, outV1.Z) != 0 ||
							segmentCrossesLine(newV1.X, newV1.Z, 0, 0, outV0.X, outV0.Z, outV1.X, outV1.Z) != 0) &&
							(segmentCrossesLine(outV0.X, outV0.Z, 0, 0, newV0.X, newV0.Z, newV1.X, newV1.Z) == 0 ||
								segmentCrossesLine(outV1.X, outV1.Z, 0, 0, newV0.X, newV0.Z, newV1.X, newV1.Z) == 0) {
							side = sideFront
						}
					}

					if side == sideBack {
						// Hidden behind the sorted segment, discard.
						segHidden = 0xffff
						break
					} else if newSeg.WallX0 > sortedSeg.WallX0 && newSeg.WallX1 <= sortedSeg.WallX1 {
						if splitWallCount == MaxSplitWalls {
							rc.Log.Errorf("Wall_MergeSort : Maximum split walls exceeded!")
							segHidden = 0xffff
							break
						}
						// Split the sorted segment around the new one:
						// { sortedSeg | newSeg | splitWall }.
						splitWall := &splitWalls[splitWallCount]
						splitWallCount++

						*splitWall = *sortedSeg
						splitWall.WallX0 = newSeg.WallX1 + 1
						sortedSeg.WallX1 = newSeg.WallX0 - 1
					} else if newSeg.WallX0 > sortedSeg.WallX0 {
						sortedSeg.WallX1 = newSeg.WallX0 - 1
					} else {
						sortedSeg.WallX0 = newSeg.WallX1 + 1
					}
				} else if newSeg.WallX1 >= sortedSeg.WallX0 && newSeg.WallX1 <= sortedSeg.WallX1 {
					// Right end of the new segment overlaps the sorted one.
					if newMinZ > outMaxZ {
						if newV1.Z >= outV0.Z {
							newSeg.WallX1 = sortedSeg.WallX0 - 1
						} else {
							sortedSeg.WallX0 = newSeg.WallX1 + 1
						}
					} else if segmentCrossesLine(newV1.X, newV1.Z, 0, 0, outV0.X, outV0.Z, outV1.X, outV1.Z) == 0 ||
						segmentCrossesLine(outV0.X, outV0.Z, 0, 0, newV0.X, newV0.Z, newV1.X, newV1.Z) != 0 {
						newSeg.WallX1 = sortedSeg.WallX0 - 1
					} else {
						sortedSeg.WallX0 = newSeg.WallX1 + 1
					}
				} else if newMaxZ < outMinZ || newMinZ > outMaxZ {
					// Left end overlap with disjoint z ranges.
					if newV0.Z >= outV1.Z {
						newSeg.WallX0 = sortedSeg.WallX1 + 1
					} else {
						sortedSeg.WallX1 = newSeg.WallX0 - 1
					}
				} else if segmentCrossesLine(newV0.X, newV0.Z, 0, 0, outV0.X, outV0.Z, outV1.X, outV1.Z) == 0 ||
					segmentCrossesLine(outV1.X, outV1.Z, 0, 0, newV0.X, newV0.Z, newV1.X, newV1.Z) != 0 {
					newSeg.WallX0 = sortedSeg.WallX1 + 1
				} else {
					sortedSeg.WallX1 = newSeg.WallX0 - 1
				}
			}

			// Emit the segment if it is still visible.
			if segHidden == 0 && newSeg.WallX0 <= newSeg.WallX1 {
				if outIndex == availSpace {
					rc.Log.Errorf("Wall_MergeSort : Maximum merged walls exceeded!")
				} else {
					segOutList[outIndex] = *newSeg
					outIndex++
				}
			}
		}

		splitWallIndex++
		srcIndex++
		if srcIndex < count {
			srcSeg = &c.segListSrc[start+srcIndex]
		} else if splitWallIndex < splitWallCount {
			srcSeg = &splitWalls[splitWallIndex]
		} else {
			break
		}
	}

	return outIndex
}

// segmentCrossesLine reports whether segment A avoids the infinite line
// through segment B: 1 when A does NOT cross the line, 0 when it does.
// Inputs are shifted from 16 to 12 fractional bits before the perp products
// are formed; the narrower precision decides borderline cases and is kept
// for output parity.
func segmentCrossesLine(ax0, ay0, ax1, ay1, bx0, by0, bx1, by1 fixed.Fixed16) int32 {
	bx0 >>= 4
	by0 >>= 4
	ax1 >>= 4
	ax0 >>= 4
	ay0 >>= 4
	ay1 >>= 4
	bx1 >>= 4
	by1 >>= 4

	// [ (a1-b0)x(b1-b0) ] * [ (a0-b0)x(b1-b0) ], each cross a 2D perp
	// product evaluated with Mul16 on 12 bit inputs.
	cross := fixed.Mul16(
		fixed.Mul16(ax1-bx0, by1-by0)-fixed.Mul16(ay1-by0, bx1-bx0),
		fixed.Mul16(ax0-bx0, by1-by0)-fixed.Mul16(ay0-by0, bx1-bx0))

	if cross > 0 {
		return 1
	}
	return 0
}
