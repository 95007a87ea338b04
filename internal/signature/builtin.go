package signature

var builtin = []struct {
	name       string
	desc       string
	start, end []byte
}{
	{
		name:  "png",
		desc:  "Portable Network Graphics",
		start: []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
		end:   []byte{0x49, 0x45, 0x4E, 0x44, 0xAE, 0x42, 0x60, 0x82},
	},
	{
		name:  "jpg",
		desc:  "JPEG/JFIF image",
		start: []byte{0xFF, 0xD8, 0xFF},
		end:   []byte{0xFF, 0xD9},
	},
	{
		name:  "gif",
		desc:  "Graphics Interchange Format",
		start: []byte("GIF8"),
		end:   []byte{0x00, 0x3B},
	},
	{
		name:  "pdf",
		desc:  "Portable Document Format",
		start: []byte("%PDF-"),
		end:   []byte("%%EOF"),
	},
}

// Default builds a fresh registry holding the built-in formats.
func Default() *Registry {
	sigs := make([]Signature, len(builtin))
	for i, b := range builtin {
		sigs[i] = MustNew(b.name, b.start, b.end).WithDescription(b.desc)
	}

	r, err := NewRegistry(sigs...)
	if err != nil {
		panic(err)
	}
	return r
}
