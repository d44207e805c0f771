package density

// kernelEncoder is the capability interface a block encoder dispatches
// to for one algorithm mode. It stands in for densityxx's compile-time
// template parameterization over kernel type (chameleon_encode_t,
// cheetah_encode_t, ...): a dispatch through an interface costs nothing
// measurable next to the per-chunk work each kernel does.
type kernelEncoder interface {
	// init resets the kernel's internal state (dictionary, counters,
	// process position) for the start of a fresh stream or block cycle.
	init()

	// continueEncode processes as many whole processing units as
	// currently buffered input and available output space allow. Returns
	// StateStallOnInput when less than one processing unit is buffered,
	// StateStallOnOutput when the next unit's worst-case output would
	// not fit, StateInfoNewBlock/StateInfoEfficiencyCheck as advisory
	// terminal signals, or StateError.
	continueEncode(in *teleport, out *location) State

	// finishEncode is continueEncode plus a step-by-step tail: once no
	// more whole units are buffered it encodes the remaining whole
	// chunks one at a time and copies any leftover sub-chunk bytes
	// verbatim, assuming no further input will arrive.
	finishEncode(in *teleport, out *location) State
}

// kernelDecoder is the decode-side counterpart of kernelEncoder.
type kernelDecoder interface {
	// init resets state using the main header's parameters and the
	// number of trailing bytes the caller must keep reserved in the
	// teleport so a main footer (and, for integrity-checked blocks, the
	// block footer) stays readable.
	init(resetCycleShift uint8, endDataOverhead uint64)

	continueDecode(in *teleport, out *location) State
	finishDecode(in *teleport, out *location) State
}

// newKernelEncoder returns the kernelEncoder for mode, or nil for modes
// with no kernel implementation (ModeLion).
func newKernelEncoder(mode Mode) kernelEncoder {
	switch mode {
	case ModeCopy:
		return &copyEncoder{}
	case ModeChameleon:
		return &chameleonEncoder{}
	case ModeCheetah:
		return &cheetahEncoder{}
	default:
		return nil
	}
}

// newKernelDecoder returns the kernelDecoder for mode, or nil for modes
// with no kernel implementation (ModeLion).
func newKernelDecoder(mode Mode) kernelDecoder {
	switch mode {
	case ModeCopy:
		return &copyDecoder{}
	case ModeChameleon:
		return &chameleonDecoder{}
	case ModeCheetah:
		return &cheetahDecoder{}
	default:
		return nil
	}
}
