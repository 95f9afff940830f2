package content

import "time"

const (
	ChannelURL = "https://www.youtube.com/@vernonskinclinic"

	// PrimaryWhatsApp is used for handoffs that don't name a branch.
	PrimaryWhatsApp = "919100012345"
	EmergencyPhone  = "+91 40 4855 0000"
)

var categories = []Category{
	{Slug: "skin", Name: "Skin Treatments", Description: "Medical and aesthetic care for acne, pigmentation, texture and glow."},
	{Slug: "laser", Name: "Laser Treatments", Description: "US-FDA approved lasers for hair reduction, pigmentation and resurfacing."},
	{Slug: "anti-aging", Name: "Anti-Aging", Description: "Injectables and skin tightening for lines, volume loss and sagging."},
	{Slug: "hair", Name: "Hair Restoration", Description: "Hair fall management, regrowth therapies and transplants."},
	{Slug: "body", Name: "Body Contouring", Description: "Non-surgical fat reduction and skin firming."},
}

var treatments = []Treatment{
	{
		ID:               "acne-treatment",
		Name:             "Acne Treatment",
		Slug:             "acne-treatment",
		CategorySlug:     "skin",
		ShortDescription: "Customised medical protocol combining peels, extractions and prescription care to clear active acne and prevent breakouts.",
		Duration:         "45 minutes",
		Sessions:         "4-6 sessions, 2-3 weeks apart",
		Downtime:         "None to minimal redness",
		SuitableFor:      []string{"active acne", "pimples", "blackheads", "whiteheads", "oily skin"},
		Technology:       []string{"salicylic peel", "blue light therapy"},
		FAQs: []FAQ{
			{Question: "Will acne come back after treatment?", Answer: "Maintenance care and a home routine keep most patients clear; occasional breakouts are managed early."},
			{Question: "Is acne treatment safe for teenagers?", Answer: "Yes, protocols are adjusted for age and skin sensitivity after an in-person evaluation."},
		},
	},
	{
		ID:               "acne-scar-treatment",
		Name:             "Acne Scar Treatment",
		Slug:             "acne-scar-treatment",
		CategorySlug:     "skin",
		ShortDescription: "Combination of microneedling, subcision and fractional laser to smooth pitted and rolling acne scars.",
		Duration:         "60 minutes",
		Sessions:         "3-6 sessions, 4 weeks apart",
		Downtime:         "2-4 days of redness",
		SuitableFor:      []string{"acne scars", "pitted scars", "uneven texture", "open pores"},
		Technology:       []string{"microneedling", "fractional co2 laser", "subcision"},
		FAQs: []FAQ{
			{Question: "Can acne scars be removed completely?", Answer: "Most patients see 50-80% improvement; deep scars need a combination approach."},
		},
	},
	{
		ID:               "chemical-peel",
		Name:             "Chemical Peel",
		Slug:             "chemical-peel",
		CategorySlug:     "skin",
		ShortDescription: "Medical-grade peels that exfoliate dull skin, fade tan and brighten the complexion.",
		Duration:         "30 minutes",
		Sessions:         "4-6 sessions, 2 weeks apart",
		Downtime:         "Mild flaking for 2-3 days",
		SuitableFor:      []string{"dull skin", "tanning", "mild pigmentation", "uneven tone", "acne"},
		Technology:       []string{"glycolic peel", "salicylic peel", "yellow peel"},
		FAQs: []FAQ{
			{Question: "Does a peel hurt?", Answer: "You may feel tingling for a few minutes; it is well tolerated."},
		},
	},
	{
		ID:               "hydrafacial",
		Name:             "HydraFacial",
		Slug:             "hydrafacial",
		CategorySlug:     "skin",
		ShortDescription: "Three-step cleanse, extract and hydrate facial for instant glow with no downtime.",
		Duration:         "45 minutes",
		Sessions:         "Monthly for maintenance",
		Downtime:         "None",
		SuitableFor:      []string{"dull skin", "dehydrated skin", "congested pores", "pre-event glow"},
		Technology:       []string{"hydradermabrasion", "vortex extraction"},
	},
	{
		ID:               "pigmentation-treatment",
		Name:             "Pigmentation & Melasma Treatment",
		Slug:             "pigmentation-treatment",
		CategorySlug:     "laser",
		ShortDescription: "Laser toning with targeted topicals to lighten melasma, sun spots and dark patches.",
		Duration:         "30-45 minutes",
		Sessions:         "6-8 sessions, 2-3 weeks apart",
		Downtime:         "None",
		SuitableFor:      []string{"pigmentation", "melasma", "dark spots", "sun damage", "uneven tone"},
		Technology:       []string{"q-switched nd:yag laser", "pico laser"},
		FAQs: []FAQ{
			{Question: "Can melasma be cured permanently?", Answer: "Melasma can be controlled very well, but sun protection and maintenance are needed to keep pigmentation away."},
		},
	},
	{
		ID:               "laser-hair-reduction",
		Name:             "Laser Hair Reduction",
		Slug:             "laser-hair-reduction",
		CategorySlug:     "laser",
		ShortDescription: "Long-term reduction of unwanted body and facial hair with a triple-wavelength diode laser, safe for Indian skin.",
		Duration:         "15-90 minutes depending on area",
		Sessions:         "6-8 sessions, 4-6 weeks apart",
		Downtime:         "None",
		SuitableFor:      []string{"unwanted hair", "facial hair", "ingrown hair", "pcos hair growth"},
		Technology:       []string{"diode laser", "triple wavelength"},
		FAQs: []FAQ{
			{Question: "Is laser hair reduction permanent?", Answer: "It gives long-term reduction of 80-90%; a yearly touch-up keeps results."},
			{Question: "Is it safe for dark skin?", Answer: "Yes, the diode laser is calibrated for Indian skin types."},
		},
	},
	{
		ID:               "botox",
		Name:             "Botox",
		Slug:             "botox",
		CategorySlug:     "anti-aging",
		ShortDescription: "Anti-wrinkle injections that relax expression lines on the forehead, frown area and crow's feet.",
		Duration:         "20 minutes",
		Sessions:         "Single session, repeat every 4-6 months",
		Downtime:         "None",
		SuitableFor:      []string{"wrinkles", "forehead lines", "crow's feet", "frown lines", "excessive sweating"},
		Technology:       []string{"botulinum toxin"},
		FAQs: []FAQ{
			{Question: "Will Botox make my face look frozen?", Answer: "Our doctors dose conservatively so expressions stay natural."},
		},
	},
	{
		ID:               "dermal-fillers",
		Name:             "Dermal Fillers",
		Slug:             "dermal-fillers",
		CategorySlug:     "anti-aging",
		ShortDescription: "Hyaluronic acid fillers to restore volume in cheeks, lips, under-eyes and jawline.",
		Duration:         "30-45 minutes",
		Sessions:         "Single session, lasts 9-18 months",
		Downtime:         "Mild swelling for 1-2 days",
		SuitableFor:      []string{"volume loss", "under-eye hollows", "thin lips", "smile lines", "wrinkles"},
		Technology:       []string{"hyaluronic acid"},
	},
	{
		ID:               "hifu",
		Name:             "HIFU Skin Tightening",
		Slug:             "hifu",
		CategorySlug:     "anti-aging",
		ShortDescription: "Focused ultrasound lifts and tightens sagging skin on the face and neck without surgery.",
		Duration:         "60-90 minutes",
		Sessions:         "1-2 sessions a year",
		Downtime:         "None",
		SuitableFor:      []string{"sagging skin", "double chin", "jowls", "loose skin"},
		Technology:       []string{"high intensity focused ultrasound"},
	},
	{
		ID:               "hair-transplant",
		Name:             "Hair Transplant",
		Slug:             "hair-transplant",
		CategorySlug:     "hair",
		ShortDescription: "FUE hair transplant performed by dermatosurgeons for natural hairlines and lasting density.",
		Duration:         "6-8 hours",
		Sessions:         "Single procedure",
		Downtime:         "5-7 days",
		SuitableFor:      []string{"baldness", "receding hairline", "hair loss", "thinning crown"},
		Technology:       []string{"fue", "dhi"},
		FAQs: []FAQ{
			{Question: "Are hair transplant results permanent?", Answer: "Transplanted follicles are resistant to balding and keep growing for life."},
			{Question: "When will I see new hair growth?", Answer: "New hair starts at 3-4 months with final results around 12 months."},
		},
	},
	{
		ID:               "prp-hair",
		Name:             "PRP Hair Therapy",
		Slug:             "prp-hair",
		CategorySlug:     "hair",
		ShortDescription: "Platelet-rich plasma from your own blood stimulates weak follicles to reduce hair fall and improve density.",
		Duration:         "45 minutes",
		Sessions:         "4-6 sessions, monthly",
		Downtime:         "None",
		SuitableFor:      []string{"hair fall", "hair thinning", "early hair loss", "postpartum hair fall"},
		Technology:       []string{"prp", "gfc"},
	},
	{
		ID:               "body-contouring",
		Name:             "Body Contouring",
		Slug:             "body-contouring",
		CategorySlug:     "body",
		ShortDescription: "Non-surgical fat freezing and radiofrequency to reduce stubborn fat and firm the skin.",
		Duration:         "60 minutes per area",
		Sessions:         "2-4 sessions",
		Downtime:         "None",
		SuitableFor:      []string{"stubborn fat", "love handles", "belly fat", "cellulite"},
		Technology:       []string{"cryolipolysis", "radiofrequency"},
	},
}

// prices is in declaration order; fuzzy lookups return the first hit.
var prices = []priceEntry{
	{"acne-treatment", PriceRange{Min: 2500, Max: 6000, Unit: "per session"}},
	{"acne-scar-treatment", PriceRange{Min: 5000, Max: 15000, Unit: "per session"}},
	{"chemical-peel", PriceRange{Min: 2000, Max: 5000, Unit: "per session"}},
	{"hydrafacial", PriceRange{Min: 4000, Max: 8000, Unit: "per session"}},
	{"pigmentation-treatment", PriceRange{Min: 3500, Max: 9000, Unit: "per session"}},
	{"laser-hair-reduction", PriceRange{Min: 3000, Max: 15000, Unit: "per session"}},
	{"botox", PriceRange{Min: 8000, Max: 25000, Unit: "per area"}},
	{"dermal-fillers", PriceRange{Min: 18000, Max: 35000, Unit: "per syringe"}},
	{"hifu", PriceRange{Min: 25000, Max: 60000, Unit: "per session"}},
	{"hair-transplant", PriceRange{Min: 50000, Max: 150000, Unit: "per procedure"}},
	{"prp-hair", PriceRange{Min: 5000, Max: 8000, Unit: "per session"}},
	{"body-contouring", PriceRange{Min: 15000, Max: 40000, Unit: "per area"}},
	{"consultation", PriceRange{Min: 0, Max: 800, Unit: "per visit"}},
}

var doctors = []Doctor{
	{
		Name:            "Dr. Anitha Reddy",
		Title:           "Medical Director & Senior Dermatologist",
		Qualifications:  "MBBS, MD (Dermatology)",
		Specializations: []string{"acne and scars", "pigmentation", "lasers"},
		ExperienceYears: 18,
		Locations:       []string{"Banjara Hills", "Jubilee Hills"},
	},
	{
		Name:            "Dr. Karthik Rao",
		Title:           "Hair Transplant Surgeon",
		Qualifications:  "MBBS, DNB (Dermatology), FHRS",
		Specializations: []string{"hair transplant", "hair loss", "prp"},
		ExperienceYears: 12,
		Locations:       []string{"Jubilee Hills", "Gachibowli"},
	},
	{
		Name:            "Dr. Meera Iyer",
		Title:           "Aesthetic Dermatologist",
		Qualifications:  "MBBS, DVD",
		Specializations: []string{"botox", "fillers", "skin tightening"},
		ExperienceYears: 9,
		Locations:       []string{"Banjara Hills", "Gachibowli"},
	},
}

var locations = []Location{
	{
		Slug:     "banjara-hills",
		Name:     "Banjara Hills",
		Address:  "Road No. 12, Banjara Hills, Hyderabad 500034",
		Phone:    "+91 40 4855 1111",
		WhatsApp: "919100011111",
		Hours:    "Mon-Sat 10:00 AM - 8:00 PM, Sun 10:00 AM - 2:00 PM",
		Services: []string{"Skin", "Laser", "Anti-Aging", "Body Contouring"},
		MapURL:   "https://maps.google.com/?q=Vernon+Skin+Clinic+Banjara+Hills",
	},
	{
		Slug:     "jubilee-hills",
		Name:     "Jubilee Hills",
		Address:  "Road No. 36, Jubilee Hills, Hyderabad 500033",
		Phone:    "+91 40 4855 2222",
		WhatsApp: "919100022222",
		Hours:    "Mon-Sat 10:00 AM - 8:00 PM, Sun closed",
		Services: []string{"Skin", "Laser", "Hair Restoration", "Hair Transplant"},
		MapURL:   "https://maps.google.com/?q=Vernon+Skin+Clinic+Jubilee+Hills",
	},
	{
		Slug:     "gachibowli",
		Name:     "Gachibowli",
		Address:  "DLF Cyber City Road, Gachibowli, Hyderabad 500032",
		Phone:    "+91 40 4855 3333",
		WhatsApp: "919100033333",
		Hours:    "Mon-Sun 11:00 AM - 9:00 PM",
		Services: []string{"Skin", "Laser", "Hair Restoration", "Anti-Aging"},
		MapURL:   "https://maps.google.com/?q=Vernon+Skin+Clinic+Gachibowli",
	},
}

var videos = []Video{
	{Title: "Acne Treatment Explained by Our Dermatologist", URL: "https://www.youtube.com/watch?v=vrn-acne01", Topic: "acne", Tags: []string{"acne", "pimples", "skincare"}, Language: "english"},
	{Title: "Acne Scars: Which Treatment Works?", URL: "https://www.youtube.com/watch?v=vrn-scar01", Topic: "acne scars", Tags: []string{"scars", "microneedling", "laser"}, Language: "english"},
	{Title: "Pigmentation aur Melasma ka Ilaaj", URL: "https://www.youtube.com/watch?v=vrn-pig02", Topic: "pigmentation", Tags: []string{"melasma", "dark spots"}, Language: "hindi"},
	{Title: "Laser Hair Reduction: What to Expect", URL: "https://www.youtube.com/watch?v=vrn-lhr01", Topic: "laser hair reduction", Tags: []string{"laser", "unwanted hair"}, Language: "english"},
	{Title: "Hair Transplant Journey at Vernon", URL: "https://www.youtube.com/watch?v=vrn-ht01", Topic: "hair transplant", Tags: []string{"fue", "hair loss", "baldness"}, Language: "english"},
	{Title: "Hair Fall Ki Reasons and PRP", URL: "https://www.youtube.com/watch?v=vrn-prp02", Topic: "hair fall", Tags: []string{"prp", "hair loss"}, Language: "telugu"},
	{Title: "Botox Myths Busted", URL: "https://www.youtube.com/watch?v=vrn-btx01", Topic: "botox", Tags: []string{"wrinkles", "anti-aging"}, Language: "english"},
	{Title: "HydraFacial Glow in 45 Minutes", URL: "https://www.youtube.com/watch?v=vrn-hyd01", Topic: "hydrafacial", Tags: []string{"glow", "facial"}, Language: "english"},
}

var blogPosts = []BlogPost{
	{
		Slug:        "acne-myths",
		Title:       "7 Acne Myths Your Dermatologist Wants You to Stop Believing",
		Excerpt:     "From toothpaste hacks to skipping moisturiser, here is what actually helps breakouts.",
		Category:    "Skin",
		Tags:        []string{"acne", "skincare", "myths"},
		Author:      "Dr. Anitha Reddy",
		PublishedAt: time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
		Content: `<h2>Myth 1: Acne means your skin is dirty</h2>
<p>Acne starts inside the pore, driven by hormones, oil production and bacteria. Over-washing strips the skin barrier and often makes breakouts worse.</p>
<h2>Myth 2: Oily skin should skip moisturiser</h2>
<p>A light, non-comedogenic moisturiser keeps the barrier healthy and helps prescription treatments work with less irritation.</p>
<h2>Myth 3: Toothpaste dries out pimples</h2>
<p>Toothpaste irritates skin and can leave dark marks. Use a spot treatment with benzoyl peroxide or salicylic acid instead, and see a dermatologist if breakouts persist.</p>`,
	},
	{
		Slug:        "laser-hair-reduction-guide",
		Title:       "Laser Hair Reduction for Indian Skin: A Complete Guide",
		Excerpt:     "How diode lasers work on darker skin tones, how many sessions you need and how to prepare.",
		Category:    "Laser",
		Tags:        []string{"laser", "hair reduction", "indian skin"},
		Author:      "Dr. Anitha Reddy",
		PublishedAt: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		Content: `<p>Laser hair reduction targets the pigment in the hair follicle. Modern diode lasers use longer wavelengths that bypass the pigment in the skin, which makes them safe for Indian skin types.</p>
<h3>How many sessions?</h3>
<p>Hair grows in cycles, so 6 to 8 sessions spaced 4 to 6 weeks apart are needed to catch every follicle in its growth phase.</p>
<h3>Preparing for a session</h3>
<ul><li>Shave the area a day before.</li><li>Avoid waxing or threading for 4 weeks.</li><li>Skip sun exposure for a week.</li></ul>`,
	},
	{
		Slug:        "hair-transplant-recovery",
		Title:       "Hair Transplant Recovery: Week by Week",
		Excerpt:     "What to expect in the days and months after an FUE hair transplant.",
		Category:    "Hair",
		Tags:        []string{"hair transplant", "fue", "recovery"},
		Author:      "Dr. Karthik Rao",
		PublishedAt: time.Date(2024, 7, 18, 0, 0, 0, 0, time.UTC),
		Content: `<p>The first week after an FUE hair transplant is about protecting the grafts. Sleep with your head elevated and avoid touching the recipient area.</p>
<p>Between weeks 2 and 8 the transplanted hair sheds. This shock loss is normal and the follicles stay in place.</p>
<p>New growth appears at 3 to 4 months, and most patients see the final density at 12 months.</p>`,
	},
	{
		Slug:        "melasma-sun-protection",
		Title:       "Melasma and the Sun: Why Sunscreen Is Your First Treatment",
		Excerpt:     "Pigmentation keeps coming back without daily sun protection. Here is how to choose and use sunscreen.",
		Category:    "Skin",
		Tags:        []string{"pigmentation", "melasma", "sunscreen"},
		Author:      "Dr. Meera Iyer",
		PublishedAt: time.Date(2024, 9, 5, 0, 0, 0, 0, time.UTC),
		Content: `<p>Melasma is triggered by hormones and made worse by sunlight and visible light. Even the best laser toning results fade if the skin is not protected every day.</p>
<p>Choose a broad-spectrum SPF 50 with iron oxides, apply two finger-lengths for the face and reapply every 3 hours outdoors.</p>`,
	},
}
