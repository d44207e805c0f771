package density

// Hardcoded implementation limits and wire-format constants.
const (
	// MinimumOutputBufferSize is the smallest output buffer a [Stream]
	// will accept. Conformity gate: EncodeStream.Init and DecodeStream.Init
	// return [StateErrorOutputBufferTooSmall] below this.
	MinimumOutputBufferSize = 1 << 10

	// stagingCapacity is the fixed size of a Teleport's owned staging
	// region.
	stagingCapacity = 1 << 16

	// dictionaryPreferredResetCycleShift is the default dictionary reset
	// cycle shift written into the main header parameters: the dictionary
	// resets every (1 << shift) blocks.
	dictionaryPreferredResetCycleShift = 6

	// decodeEndDataOverhead is the number of trailing bytes decode must
	// reserve so the main footer stays readable once block decoding ends.
	decodeEndDataOverhead = 4 // sizeof(mainFooter)

	mainHeaderSize      = 16 // version[3] + mode(1) + block_type(1) + reserved[3] + parameters(8)
	mainFooterSize      = 4
	blockHeaderSize     = 4
	blockModeMarkerSize = 2
	blockFooterSize     = 16

	versionMajor = 0
	versionMinor = 12
	versionPatch = 5
)
