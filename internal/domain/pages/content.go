package pages

type HeadingContent struct {
	Text  string `json:"text"`
	Level int    `json:"level,omitempty" validate:"omitempty,min=1,max=6"`
}

type TextContent struct {
	Text string `json:"text"`
}

type ImageContent struct {
	ImageURL  string `json:"imageUrl"`
	ImageAlt  string `json:"imageAlt,omitempty"`
	ImageLink string `json:"imageLink,omitempty"`
}

type ButtonContent struct {
	ButtonText string `json:"buttonText" validate:"required"`
	ButtonLink string `json:"buttonLink,omitempty"`
	Style      string `json:"style,omitempty" validate:"omitempty,oneof=primary secondary outline link"`
}

type VideoContent struct {
	VideoURL string `json:"videoUrl"`
	Autoplay bool   `json:"autoplay,omitempty"`
}

type HTMLContent struct {
	HTMLContent string `json:"htmlContent"`
}

type SpacerContent struct {
	Height int `json:"height" validate:"min=0,max=2000"`
}

type DividerContent struct {
	Style string `json:"style,omitempty" validate:"omitempty,oneof=solid dashed dotted"`
}

type AccordionItem struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type AccordionContent struct {
	Items []AccordionItem `json:"accordionItems"`
}

type CarouselItem struct {
	Title      string `json:"title,omitempty"`
	Subtitle   string `json:"subtitle,omitempty"`
	ButtonText string `json:"buttonText,omitempty"`
	ImageURL   string `json:"imageUrl"`
	Link       string `json:"link,omitempty"`
}

type CarouselContent struct {
	Items    []CarouselItem `json:"carouselItems"`
	Autoplay bool           `json:"autoplay,omitempty"`
	Interval int            `json:"interval,omitempty" validate:"omitempty,min=1000"`
}

const (
	GalleryAllImages     = "allImages"
	GalleryBaseImages    = "baseImages"
	GalleryVariantImages = "variantImages"
)

// DataBinding ties a block to a field of a binding source.
type DataBinding struct {
	SourceType string `json:"sourceType" validate:"required,oneof=product category customer collection"`
	FieldPath  string `json:"fieldPath"`
}

type GalleryItem struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	URL       string `json:"url"`
	Alt       string `json:"alt,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

type MediaGalleryContent struct {
	Items       []GalleryItem `json:"items"`
	Layout      string        `json:"layout,omitempty" validate:"omitempty,oneof=grid carousel masonry"`
	DataBinding *DataBinding  `json:"dataBinding,omitempty"`
}

type ProductGridContent struct {
	Text       string   `json:"text,omitempty"`
	ProductIDs []string `json:"productIds,omitempty"`
	CategoryID string   `json:"categoryId,omitempty"`
	Limit      int      `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
}

type ProductCardContent struct {
	ProductID  string `json:"productId"`
	ButtonText string `json:"buttonText,omitempty"`
	ButtonLink string `json:"buttonLink,omitempty"`
}

type CategoryGridContent struct {
	Text        string   `json:"text,omitempty"`
	CategoryIDs []string `json:"categoryIds,omitempty"`
}

type HeroContent struct {
	Text       string `json:"text"`
	ImageURL   string `json:"imageUrl,omitempty"`
	ImageAlt   string `json:"imageAlt,omitempty"`
	ButtonText string `json:"buttonText,omitempty"`
	ButtonLink string `json:"buttonLink,omitempty"`
}

type TestimonialContent struct {
	Text     string `json:"text"`
	Author   string `json:"author,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	ImageAlt string `json:"imageAlt,omitempty"`
}

type NewsletterContent struct {
	Text       string `json:"text"`
	ButtonText string `json:"buttonText,omitempty"`
}

type CountdownContent struct {
	Text   string `json:"text,omitempty"`
	EndsAt string `json:"endsAt" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

type AddToCartContent struct {
	ProductID  string `json:"productId,omitempty"`
	ButtonText string `json:"buttonText,omitempty"`
}

func (*HeadingContent) BlockType() BlockType      { return BlockHeading }
func (*TextContent) BlockType() BlockType         { return BlockText }
func (*ImageContent) BlockType() BlockType        { return BlockImage }
func (*ButtonContent) BlockType() BlockType       { return BlockButton }
func (*VideoContent) BlockType() BlockType        { return BlockVideo }
func (*HTMLContent) BlockType() BlockType         { return BlockHTML }
func (*SpacerContent) BlockType() BlockType       { return BlockSpacer }
func (*DividerContent) BlockType() BlockType      { return BlockDivider }
func (*AccordionContent) BlockType() BlockType    { return BlockAccordion }
func (*CarouselContent) BlockType() BlockType     { return BlockCarousel }
func (*MediaGalleryContent) BlockType() BlockType { return BlockMediaGallery }
func (*ProductGridContent) BlockType() BlockType  { return BlockProductGrid }
func (*ProductCardContent) BlockType() BlockType  { return BlockProductCard }
func (*CategoryGridContent) BlockType() BlockType { return BlockCategoryGrid }
func (*HeroContent) BlockType() BlockType         { return BlockHero }
func (*TestimonialContent) BlockType() BlockType  { return BlockTestimonial }
func (*NewsletterContent) BlockType() BlockType   { return BlockNewsletter }
func (*CountdownContent) BlockType() BlockType    { return BlockCountdown }
func (*AddToCartContent) BlockType() BlockType    { return BlockAddToCart }
