package util

func Uint64Ptr(value uint64) *uint64 {
	return &value
}
