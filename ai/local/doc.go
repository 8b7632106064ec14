// Package local provides an offline embedder based on feature hashing.
//
// Every unigram and adjacent-word bigram of the text is hashed into one of
// Dimension buckets with a signed FNV-1a hash, term counts are damped
// logarithmically, and the vector is L2 normalized. Identical text always
// yields the identical vector and no network access is required, so the
// default configuration works without any model server.
package local
