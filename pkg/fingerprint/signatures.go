package fingerprint

import "domainintel/pkg/domain"

// builtinSignatures is the built-in technology table. Within a category the
// order decides the primary value, so more specific platforms come first.
func builtinSignatures() []Signature {
	return []Signature{
		// cms
		{Name: "WordPress", Category: domain.CategoryCMS, Rules: []Rule{
			body(`/wp-content/`),
			body(`/wp-includes/`),
			meta("generator", `WordPress`),
			header("link", `rel="https://api\.w\.org/"`),
		}},
		{Name: "Drupal", Category: domain.CategoryCMS, Rules: []Rule{
			body(`Drupal\.settings`),
			body(`/sites/(?:default|all)/(?:themes|modules|files)/`),
			header("x-generator", `Drupal`),
			header("x-drupal-cache", ""),
			meta("generator", `Drupal`),
		}},
		{Name: "Joomla", Category: domain.CategoryCMS, Rules: []Rule{
			meta("generator", `Joomla`),
			body(`/media/jui/`),
			body(`/components/com_[a-z]+/`),
		}},
		{Name: "Squarespace", Category: domain.CategoryCMS, Rules: []Rule{
			body(`static1\.squarespace\.com`),
			header("server", `Squarespace`),
		}},
		{Name: "Wix", Category: domain.CategoryCMS, Rules: []Rule{
			body(`static\.wixstatic\.com`),
			header("x-wix-request-id", ""),
			meta("generator", `Wix\.com`),
		}},
		{Name: "Webflow", Category: domain.CategoryCMS, Rules: []Rule{
			meta("generator", `Webflow`),
			body(`data-wf-page=`),
		}},
		{Name: "Ghost", Category: domain.CategoryCMS, Rules: []Rule{
			meta("generator", `^Ghost`),
			header("x-ghost-cache-status", ""),
		}},
		{Name: "HubSpot CMS", Category: domain.CategoryCMS, Rules: []Rule{
			meta("generator", `HubSpot`),
			header("x-hs-hub-id", ""),
		}},
		{Name: "Craft CMS", Category: domain.CategoryCMS, Rules: []Rule{
			header("x-powered-by", `Craft CMS`),
		}},

		// ecommerce
		{Name: "Shopify", Category: domain.CategoryEcommerce, Rules: []Rule{
			body(`cdn\.shopify\.com`),
			body(`Shopify\.theme`),
			header("x-shopid", ""),
			header("x-shopify-stage", ""),
		}},
		{Name: "WooCommerce", Category: domain.CategoryEcommerce, Rules: []Rule{
			body(`woocommerce`),
			body(`wc-ajax`),
			meta("generator", `WooCommerce`),
		}},
		{Name: "Magento", Category: domain.CategoryEcommerce, Rules: []Rule{
			body(`Mage\.Cookies`),
			body(`/static/version\d+/frontend/`),
			header("x-magento-cache-debug", ""),
			header("x-magento-tags", ""),
		}},
		{Name: "BigCommerce", Category: domain.CategoryEcommerce, Rules: []Rule{
			body(`cdn\d*\.bigcommerce\.com`),
			body(`bigcommerce\.com/s-[a-z0-9]+`),
		}},
		{Name: "PrestaShop", Category: domain.CategoryEcommerce, Rules: []Rule{
			meta("generator", `PrestaShop`),
			header("powered-by", `PrestaShop`),
			body(`var prestashop\s*=`),
		}},
		{Name: "Ecwid", Category: domain.CategoryEcommerce, Rules: []Rule{
			body(`app\.ecwid\.com/script\.js`),
		}},

		// framework
		{Name: "Next.js", Category: domain.CategoryFramework, Rules: []Rule{
			body(`__NEXT_DATA__`),
			body(`/_next/static/`),
			header("x-powered-by", `Next\.js`),
		}},
		{Name: "React", Category: domain.CategoryFramework, Rules: []Rule{
			body(`data-reactroot`),
			body(`react(?:-dom)?(?:\.production)?(?:\.min)?\.js`),
		}},
		{Name: "Nuxt.js", Category: domain.CategoryFramework, Rules: []Rule{
			body(`window\.__NUXT__`),
			body(`/_nuxt/`),
		}},
		{Name: "Vue.js", Category: domain.CategoryFramework, Rules: []Rule{
			body(`data-v-[0-9a-f]{8}`),
			body(`vue(?:\.runtime)?(?:\.global)?(?:\.min)?\.js`),
		}},
		{Name: "Angular", Category: domain.CategoryFramework, Rules: []Rule{
			body(`ng-version="`),
		}},
		{Name: "Gatsby", Category: domain.CategoryFramework, Rules: []Rule{
			meta("generator", `^Gatsby`),
			body(`id="___gatsby"`),
		}},
		{Name: "Laravel", Category: domain.CategoryFramework, Rules: []Rule{
			header("set-cookie", `laravel_session=`),
		}},
		{Name: "Ruby on Rails", Category: domain.CategoryFramework, Rules: []Rule{
			meta("csrf-param", `^authenticity_token$`),
			header("x-powered-by", `Phusion Passenger`),
		}},
		{Name: "Express", Category: domain.CategoryFramework, Rules: []Rule{
			header("x-powered-by", `^Express$`),
		}},
		{Name: "ASP.NET", Category: domain.CategoryFramework, Rules: []Rule{
			header("x-powered-by", `ASP\.NET`),
			header("x-aspnet-version", ""),
		}},
		{Name: "jQuery", Category: domain.CategoryFramework, Rules: []Rule{
			body(`jquery(?:-\d+(?:\.\d+)*)?(?:\.min)?\.js`),
		}},
		{Name: "Bootstrap", Category: domain.CategoryFramework, Rules: []Rule{
			body(`bootstrap(?:\.bundle)?(?:\.min)?\.(?:css|js)`),
		}},

		// analytics
		{Name: "Google Analytics", Category: domain.CategoryAnalytics, Rules: []Rule{
			body(`google-analytics\.com/(?:analytics|ga)\.js`),
			body(`googletagmanager\.com/gtag/js\?id=(?:G|UA)-`),
		}},
		{Name: "Google Tag Manager", Category: domain.CategoryAnalytics, Rules: []Rule{
			body(`googletagmanager\.com/gtm\.js`),
		}},
		{Name: "Facebook Pixel", Category: domain.CategoryAnalytics, Rules: []Rule{
			body(`connect\.facebook\.net/[^"']*/fbevents\.js`),
		}},
		{Name: "Hotjar", Category: domain.CategoryAnalytics, Rules: []Rule{
			body(`static\.hotjar\.com`),
		}},
		{Name: "Mixpanel", Category: domain.CategoryAnalytics, Rules: []Rule{
			body(`cdn\.mxpnl\.com`),
		}},
		{Name: "Segment", Category: domain.CategoryAnalytics, Rules: []Rule{
			body(`cdn\.segment\.com/analytics\.js`),
		}},
		{Name: "Plausible", Category: domain.CategoryAnalytics, Rules: []Rule{
			body(`plausible\.io/js/`),
		}},
		{Name: "Matomo", Category: domain.CategoryAnalytics, Rules: []Rule{
			body(`(?:matomo|piwik)\.js`),
		}},
		{Name: "Microsoft Clarity", Category: domain.CategoryAnalytics, Rules: []Rule{
			body(`clarity\.ms/tag/`),
		}},
		{Name: "Heap", Category: domain.CategoryAnalytics, Rules: []Rule{
			body(`cdn\.heapanalytics\.com`),
		}},

		// marketing
		{Name: "HubSpot", Category: domain.CategoryMarketing, Rules: []Rule{
			body(`js\.hs-scripts\.com`),
			body(`js\.hs-analytics\.net`),
		}},
		{Name: "Mailchimp", Category: domain.CategoryMarketing, Rules: []Rule{
			body(`chimpstatic\.com`),
			body(`list-manage\.com`),
		}},
		{Name: "Klaviyo", Category: domain.CategoryMarketing, Rules: []Rule{
			body(`static\.klaviyo\.com`),
		}},
		{Name: "Marketo", Category: domain.CategoryMarketing, Rules: []Rule{
			body(`munchkin\.marketo\.net`),
		}},
		{Name: "Pardot", Category: domain.CategoryMarketing, Rules: []Rule{
			body(`pi\.pardot\.com`),
		}},
		{Name: "ActiveCampaign", Category: domain.CategoryMarketing, Rules: []Rule{
			body(`trackcmp\.net`),
		}},
		{Name: "LinkedIn Insight Tag", Category: domain.CategoryMarketing, Rules: []Rule{
			body(`snap\.licdn\.com/li\.lms-analytics`),
		}},
		{Name: "Google Ads", Category: domain.CategoryMarketing, Rules: []Rule{
			body(`googleadservices\.com/pagead/conversion`),
		}},

		// hosting
		{Name: "WP Engine", Category: domain.CategoryHosting, Rules: []Rule{
			header("x-powered-by", `WP Engine`),
			header("wpe-backend", ""),
		}},
		{Name: "Kinsta", Category: domain.CategoryHosting, Rules: []Rule{
			header("x-kinsta-cache", ""),
		}},
		{Name: "Vercel", Category: domain.CategoryHosting, Rules: []Rule{
			header("server", `^Vercel$`),
			header("x-vercel-id", ""),
		}},
		{Name: "Netlify", Category: domain.CategoryHosting, Rules: []Rule{
			header("server", `^Netlify`),
			header("x-nf-request-id", ""),
		}},
		{Name: "Pantheon", Category: domain.CategoryHosting, Rules: []Rule{
			header("x-pantheon-styx-hostname", ""),
		}},
		{Name: "Heroku", Category: domain.CategoryHosting, Rules: []Rule{
			header("via", `vegur`),
		}},
		{Name: "GitHub Pages", Category: domain.CategoryHosting, Rules: []Rule{
			header("server", `^GitHub\.com$`),
		}},
		{Name: "Amazon S3", Category: domain.CategoryHosting, Rules: []Rule{
			header("server", `^AmazonS3$`),
		}},

		// cdn
		{Name: "Cloudflare", Category: domain.CategoryCDN, Rules: []Rule{
			header("server", `^cloudflare$`),
			header("cf-ray", ""),
		}},
		{Name: "Amazon CloudFront", Category: domain.CategoryCDN, Rules: []Rule{
			header("x-amz-cf-id", ""),
			header("via", `CloudFront`),
		}},
		{Name: "Fastly", Category: domain.CategoryCDN, Rules: []Rule{
			header("x-served-by", `^cache-`),
			header("fastly-debug-digest", ""),
		}},
		{Name: "Akamai", Category: domain.CategoryCDN, Rules: []Rule{
			header("x-akamai-transformed", ""),
			header("server", `AkamaiGHost`),
		}},
		{Name: "Sucuri", Category: domain.CategoryCDN, Rules: []Rule{
			header("x-sucuri-id", ""),
		}},
		{Name: "BunnyCDN", Category: domain.CategoryCDN, Rules: []Rule{
			header("server", `^BunnyCDN`),
		}},
		{Name: "jsDelivr", Category: domain.CategoryCDN, Rules: []Rule{
			body(`cdn\.jsdelivr\.net`),
		}},

		// feature: contact forms
		{Name: "Contact Form 7", Category: domain.CategoryFeature, Feature: FeatureContactForm, Rules: []Rule{
			body(`wpcf7`),
		}},
		{Name: "Gravity Forms", Category: domain.CategoryFeature, Feature: FeatureContactForm, Rules: []Rule{
			body(`gform_wrapper`),
		}},
		{Name: "HubSpot Forms", Category: domain.CategoryFeature, Feature: FeatureContactForm, Rules: []Rule{
			body(`js\.hsforms\.net`),
		}},
		{Name: "Formspree", Category: domain.CategoryFeature, Feature: FeatureContactForm, Rules: []Rule{
			body(`formspree\.io/f/`),
		}},
		{Name: "Typeform", Category: domain.CategoryFeature, Feature: FeatureContactForm, Rules: []Rule{
			body(`embed\.typeform\.com`),
		}},
		{Name: "Contact Form", Category: domain.CategoryFeature, Feature: FeatureContactForm, Rules: []Rule{
			body(`<form[^>]*(?:id|class|action|name)=["'][^"']*contact`),
		}},

		// feature: live chat
		{Name: "Intercom", Category: domain.CategoryFeature, Feature: FeatureLiveChat, Rules: []Rule{
			body(`widget\.intercom\.io`),
			body(`js\.intercomcdn\.com`),
		}},
		{Name: "Drift", Category: domain.CategoryFeature, Feature: FeatureLiveChat, Rules: []Rule{
			body(`js\.driftt\.com`),
		}},
		{Name: "Zendesk Chat", Category: domain.CategoryFeature, Feature: FeatureLiveChat, Rules: []Rule{
			body(`static\.zdassets\.com`),
			body(`v2\.zopim\.com`),
		}},
		{Name: "Tawk.to", Category: domain.CategoryFeature, Feature: FeatureLiveChat, Rules: []Rule{
			body(`embed\.tawk\.to`),
		}},
		{Name: "LiveChat", Category: domain.CategoryFeature, Feature: FeatureLiveChat, Rules: []Rule{
			body(`cdn\.livechatinc\.com`),
		}},
		{Name: "Crisp", Category: domain.CategoryFeature, Feature: FeatureLiveChat, Rules: []Rule{
			body(`client\.crisp\.chat`),
		}},
		{Name: "Tidio", Category: domain.CategoryFeature, Feature: FeatureLiveChat, Rules: []Rule{
			body(`code\.tidio\.co`),
		}},
		{Name: "Olark", Category: domain.CategoryFeature, Feature: FeatureLiveChat, Rules: []Rule{
			body(`static\.olark\.com`),
		}},
		{Name: "Freshchat", Category: domain.CategoryFeature, Feature: FeatureLiveChat, Rules: []Rule{
			body(`wchat\.freshchat\.com`),
		}},
	}
}
