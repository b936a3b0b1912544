package treestate

// signature identifies a working-copy tree-state file, the same role
// git's "DIRC" plays at the head of its index file.
var signature = [4]byte{'W', 'C', 'S', 'T'}

// formatVersion is bumped whenever the on-disk layout changes
// incompatibly.
const formatVersion uint32 = 1

// checksumSize is the length in bytes of the trailing SHA-1 over every
// preceding byte of the file.
const checksumSize = 20
