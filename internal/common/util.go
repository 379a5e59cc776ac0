package common

// WipeByteArray zeroes b in place. Nil is a no-op. Used for passwords read
// from the terminal once they have been handed to the session store.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
