package density

// The block layer owns exactly one kernel codec, frames its output with
// headers/footers, and optionally maintains a streaming integrity hash
// over the block's uncompressed bytes (spec §4.4). Block mode markers
// are part of the wire format but are never emitted by this
// implementation: adaptive algorithm switching mid-stream is an
// explicit non-goal, so a block's mode never differs from the main
// header's mode and the marker would never fire.

type blockEncodeProcess int

const (
	blockEncodeWriteHeader blockEncodeProcess = iota
	blockEncodeWriteData
	blockEncodeWriteFooter
)

type blockEncoder struct {
	kernel    kernelEncoder
	blockType BlockType

	process blockEncodeProcess
	hash    *blockHash

	totalWritten    uint64 // output bytes written by this block layer so far
	prevBlockStart  uint64 // output offset where the previous block's header began
	finishingFooter bool   // true once this footer is the stream's final one
}

func newBlockEncoder(mode Mode, blockType BlockType) *blockEncoder {
	k := newKernelEncoder(mode)
	k.init()
	be := &blockEncoder{kernel: k, blockType: blockType}
	if blockType == BlockTypeWithHashsumIntegrityCheck {
		be.hash = newBlockHash()
	}
	return be
}

func (be *blockEncoder) continueBlock(in *teleport, out *location) State {
	return be.run(in, out, false)
}

func (be *blockEncoder) finishBlock(in *teleport, out *location) State {
	return be.run(in, out, true)
}

func (be *blockEncoder) run(in *teleport, out *location, finishing bool) State {
	for {
		switch be.process {
		case blockEncodeWriteHeader:
			if out.availableBytes < blockHeaderSize {
				return StateStallOnOutput
			}
			currentOffset := be.totalWritten
			hdr := blockHeader{relativePosition: uint32(currentOffset - be.prevBlockStart)}
			hdr.write(out)
			be.totalWritten += blockHeaderSize
			be.prevBlockStart = currentOffset
			if be.hash != nil {
				be.hash.reset()
			}
			be.process = blockEncodeWriteData

		case blockEncodeWriteData:
			outBefore := out.availableBytes
			if be.hash != nil {
				in.setConsumeObserver(be.hash.write)
			}
			var st State
			if finishing {
				st = be.kernel.finishEncode(in, out)
			} else {
				st = be.kernel.continueEncode(in, out)
			}
			if be.hash != nil {
				in.setConsumeObserver(nil)
			}
			be.totalWritten += outBefore - out.availableBytes

			switch st {
			case StateInfoEfficiencyCheck:
				// Advisory only: the kernel already recorded that it
				// checked efficiency at this signature count. Loop back
				// into the same kernel call to keep encoding.
				continue
			case StateInfoNewBlock:
				be.process = blockEncodeWriteFooter
				continue
			case StateReady:
				be.process = blockEncodeWriteFooter
				be.finishingFooter = true
				continue
			default:
				return st
			}

		case blockEncodeWriteFooter:
			if be.blockType == BlockTypeWithHashsumIntegrityCheck {
				if out.availableBytes < blockFooterSize {
					return StateStallOnOutput
				}
				h1, h2 := be.hash.sum()
				blockFooter{hashsum1: h1, hashsum2: h2}.write(out)
				be.totalWritten += blockFooterSize
			}
			if be.finishingFooter {
				return StateReady
			}
			be.process = blockEncodeWriteHeader

		default:
			return StateError
		}
	}
}

type blockDecodeProcess int

const (
	blockDecodeReadHeader blockDecodeProcess = iota
	blockDecodeReadData
	blockDecodeReadFooter
)

type blockDecoder struct {
	kernel          kernelDecoder
	blockType       BlockType
	endDataOverhead uint64

	process         blockDecodeProcess
	hash            *blockHash
	finishingFooter bool
}

func newBlockDecoder(mode Mode, blockType BlockType, resetCycleShift uint8, endDataOverhead uint64) *blockDecoder {
	k := newKernelDecoder(mode)
	// The kernel must also leave the trailing block footer unread, or its
	// step-by-step tail would decode the footer bytes as chunk data.
	kernelOverhead := endDataOverhead
	if blockType == BlockTypeWithHashsumIntegrityCheck {
		kernelOverhead += blockFooterSize
	}
	k.init(resetCycleShift, kernelOverhead)
	bd := &blockDecoder{kernel: k, blockType: blockType, endDataOverhead: endDataOverhead}
	if blockType == BlockTypeWithHashsumIntegrityCheck {
		bd.hash = newBlockHash()
	}
	return bd
}

func (bd *blockDecoder) continueBlock(in *teleport, out *location) State {
	return bd.run(in, out, false)
}

func (bd *blockDecoder) finishBlock(in *teleport, out *location) State {
	return bd.run(in, out, true)
}

func (bd *blockDecoder) run(in *teleport, out *location, finishing bool) State {
	for {
		switch bd.process {
		case blockDecodeReadHeader:
			read, ok := in.readReserved(blockHeaderSize, bd.endDataOverhead)
			if !ok {
				if finishing {
					if in.availableBytesReserved(bd.endDataOverhead) == 0 {
						return StateReady
					}
					return StateError
				}
				return StateStallOnInput
			}
			parseBlockHeader(read)
			if bd.hash != nil {
				bd.hash.reset()
			}
			bd.process = blockDecodeReadData

		case blockDecodeReadData:
			outOffsetBefore := out.offset
			var st State
			if finishing {
				st = bd.kernel.finishDecode(in, out)
			} else {
				st = bd.kernel.continueDecode(in, out)
			}
			if bd.hash != nil && out.offset > outOffsetBefore {
				bd.hash.write(out.buf[outOffsetBefore:out.offset])
			}

			switch st {
			case StateInfoEfficiencyCheck:
				// Advisory only: the kernel already recorded that it
				// checked efficiency at this signature count. Loop back
				// into the same kernel call to keep decoding.
				continue
			case StateInfoNewBlock:
				bd.process = blockDecodeReadFooter
				continue
			case StateReady:
				bd.process = blockDecodeReadFooter
				bd.finishingFooter = true
				continue
			default:
				return st
			}

		case blockDecodeReadFooter:
			if bd.blockType == BlockTypeWithHashsumIntegrityCheck {
				read, ok := in.readReserved(blockFooterSize, bd.endDataOverhead)
				if !ok {
					return StateStallOnInput
				}
				footer := parseBlockFooter(read)
				h1, h2 := bd.hash.sum()
				if !footer.check(h1, h2) {
					return StateIntegrityCheckFail
				}
			}
			if bd.finishingFooter {
				return StateReady
			}
			bd.process = blockDecodeReadHeader

		default:
			return StateError
		}
	}
}
