package catalog

// Course returns the full curriculum in declared order. Content is
// hand-authored; video links are resolved to embeddable URLs at the
// presentation boundary.
func Course() []Module {
	return []Module{
		{
			Slug:        "introduktion-til-midjourney",
			Title:       "Introduktion til Midjourney",
			Description: "Kom godt i gang med Midjourney",
			Order:       1,
			Lessons: []Lesson{
				{Slug: "velkommen", Title: "Velkommen", Order: 1, VideoURL: "https://youtu.be/hvvIZZlGYWk"},
				{Slug: "den-vilde-udvikling", Title: "Den vilde udvikling", Order: 2, VideoURL: "https://youtu.be/78rwbcEll7M"},
				{Slug: "tilmelding-til-midjourney", Title: "Tilmelding til Midjourney", Order: 3, VideoURL: "https://youtu.be/-2ujIISRZHg"},
				{Slug: "midjourney-rundtur", Title: "Midjourney rundtur", Order: 4, VideoURL: "https://youtu.be/TNE3eFnPkSM"},
			},
		},
		{
			Slug:        "generering-af-billeder",
			Title:       "Generering af billeder",
			Description: "Lær at skabe dine første billeder",
			Order:       2,
			Lessons: []Lesson{
				{Slug: "saadan-skaber-du-et-billede", Title: "Sådan skaber du et billede (og får variationer)", Order: 1, VideoURL: "https://youtu.be/aqSieHXahfE"},
				{Slug: "grundlaeggende-indstillinger", Title: "Grundlæggende indstillinger", Order: 2, VideoURL: "https://youtu.be/aFOWPNryj6Q"},
			},
		},
		{
			Slug:        "arbejd-videre-med-dit-billede",
			Title:       "Arbejd videre med dit billede",
			Description: "Finpuds og bearbejd dine billeder",
			Order:       3,
			Lessons: []Lesson{
				{Slug: "variationer-og-opskalering", Title: "Variationer og opskalering", Order: 1, VideoURL: "https://youtu.be/yqsfZ9WQRiY"},
				{Slug: "zoom-og-panorering", Title: "Zoom og panorering", Order: 2, VideoURL: "https://youtu.be/O3XEsDClVUA"},
				{Slug: "editor", Title: "Editor", Order: 3, VideoURL: "https://youtu.be/SIZOngl_DHU"},
			},
		},
		{
			Slug:        "skab-billeder-med-billeder",
			Title:       "Skab billeder med billeder",
			Description: "Brug billeder som udgangspunkt",
			Order:       4,
			Lessons: []Lesson{
				{Slug: "image-prompt", Title: "Image Prompt", Order: 1, VideoURL: "https://youtu.be/TQnRqxEspbY"},
				{Slug: "style-reference", Title: "Style Reference", Order: 2, VideoURL: "https://youtu.be/QdJ7ziNRRoI"},
				{Slug: "character-reference", Title: "Character Reference", Order: 3, VideoURL: "https://youtu.be/IWaPjsi8wDo"},
				{Slug: "describe", Title: "Describe", Order: 4, VideoURL: "https://youtu.be/9FM8gnIA8Wo"},
			},
		},
		{
			Slug:        "afrunding",
			Title:       "Afrunding",
			Description: "Afslutning på grundkurset",
			Order:       5,
			Lessons: []Lesson{
				{Slug: "nu-er-det-din-tur", Title: "Nu er det din tur", Order: 1, VideoURL: "https://youtu.be/cjVE-5L9-AY"},
			},
		},
		{
			Slug:        "avancerede-funktioner",
			Title:       "Avancerede funktioner",
			Description: "Udnyt Midjourneys avancerede muligheder",
			Order:       6,
			Lessons: []Lesson{
				{Slug: "no", Title: "No", Order: 1, VideoURL: "https://youtu.be/AuWBKf0ktSM"},
				{Slug: "repeat-og-permutation", Title: "Repeat & Permutation", Order: 2, VideoURL: "https://youtu.be/UwAzKnTAA-g"},
				{Slug: "tile", Title: "Tile", Order: 3, VideoURL: "https://youtu.be/dat5RMf4m7Q"},
			},
		},
		{
			Slug:        "nye-funktioner",
			Title:       "Nye funktioner",
			Description: "De nyeste funktioner i Midjourney",
			Order:       7,
			Lessons: []Lesson{
				{Slug: "style-reference-random-og-seeds", Title: "Style Reference Random & Seeds", Order: 1, VideoURL: "https://youtu.be/ckujArGTbb4"},
				{Slug: "edit", Title: "Edit", Order: 2, Content: "<p>Den nye Edit-funktion samler redigeringsværktøjerne ét sted. Her kan du ændre udsnit, udvide billedet og male områder om med nye prompts.</p>"},
				{Slug: "personalize", Title: "Personalize", Order: 3, Content: "<p>Personalize lærer din egen stil at kende ud fra de billeder, du bedømmer, og bruger den som udgangspunkt for nye genereringer.</p>"},
				{Slug: "moodboards", Title: "Moodboards", Order: 4, Content: "<p>Med Moodboards kan du samle referencebilleder i navngivne tavler og bruge en hel tavle som stilreference i dine prompts.</p>"},
				{Slug: "omni-reference", Title: "Omni Reference", Order: 5, Content: "<p>Omni Reference lader dig fastholde et motiv – en person, et objekt eller et dyr – på tværs af nye billeder med --oref.</p>"},
				{Slug: "draft-og-conversational-mode", Title: "Draft & Conversational Mode", Order: 6, Content: "<p>Draft Mode genererer hurtige kladder til en brøkdel af prisen, og Conversational Mode lader dig justere billedet i en løbende dialog.</p>"},
			},
		},
		{
			Slug:        "bedre-billeder",
			Title:       "Bedre billeder",
			Description: "Lær at lave endnu bedre billeder",
			Order:       8,
			Lessons: []Lesson{
				{Slug: "de-4-prompt-niveauer", Title: "De 4 prompt-niveauer", Order: 1, VideoURL: "https://youtu.be/wT2_PiyvvCY"},
				{Slug: "type-og-hovedmotiv", Title: "Type og hovedmotiv", Order: 2, VideoURL: "https://youtu.be/DcfEBNKNt3Y"},
				{Slug: "detaljer", Title: "Detaljer", Order: 3, VideoURL: "https://youtu.be/dim4-q2-IVw"},
				{Slug: "scenen", Title: "Scenen", Order: 4, VideoURL: "https://youtu.be/wAJgkw8Km_8"},
				{Slug: "stilarter", Title: "Stilarter", Order: 5, VideoURL: "https://youtu.be/i_yjkVNkWl4"},
				{Slug: "lys-og-farver", Title: "Lys og farver", Order: 6, VideoURL: "https://youtu.be/NMV45ie_cFY"},
				{Slug: "komposition", Title: "Komposition", Order: 7, VideoURL: "https://youtu.be/d68sGWMlM18"},
				{Slug: "kamera-effekter-kamera-og-film", Title: "Kamera-effekter, kamera og film", Order: 8, VideoURL: "https://youtu.be/cJGig5C54U8"},
			},
		},
		{
			Slug:        "guides",
			Title:       "Guides",
			Description: "Praktiske guides til specifikke emner",
			Order:       9,
			Lessons: []Lesson{
				{Slug: "almindelige-mennesker", Title: "Almindelige mennesker", Order: 1, Content: "<p>Midjourney laver som udgangspunkt modelsmukke mennesker. Denne guide viser, hvordan du prompter dig frem til almindelige, troværdige ansigter. Klik på billedet for at hente guiden som PDF.</p>"},
				{Slug: "skift-perspektiv", Title: "Skift perspektiv", Order: 2, Content: "<p>Lær at styre kameravinklen og skifte perspektiv på dine billeder. Klik på billedet for at hente guiden som PDF.</p>"},
				{Slug: "gennemgaaende-karakterer", Title: "Gennemgående karakterer", Order: 3, Content: "<p>Lær de avancerede teknikker til at skabe gennemgående karakterer igennem flere billeder. Klik på billedet for at hente guiden som PDF.</p>"},
			},
		},
	}
}
