package blp

// mipmapReader is the read-side half of component C5: given a mipmap
// index, return its raw payload bytes. The two on-disk variants (BLP1
// internal chunks, BLP0 external sidecar files) satisfy this with very
// different storage, which is exactly why it is a tagged interface
// rather than a shared struct (spec §4.5/§9).
type mipmapReader interface {
	Chunk(i int) ([]byte, error)
}
