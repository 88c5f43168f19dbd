//go:build arenadebug

package arena

const debugFill = true

func fill(b []byte) {
	for i := range b {
		b[i] = DebugFillByte
	}
}
