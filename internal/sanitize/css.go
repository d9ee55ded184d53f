package sanitize

// uiHideCSS hides the app-shell chrome a chat export drags along: menus,
// input areas, action buttons, disclaimers, and browser-extension debris.
// The content containers are re-centered to a readable column.
const uiHideCSS = `
/* Keep only conversation content */
.boqOnegoogleliteOgbOneGoogleBar,
#gb,
side-nav-menu-button,
bard-mode-switcher,
top-bar-actions,
input-area-v2,
input-container,
chat-app-banners,
chat-app-tooltips,
chat-notifications,
file-drop-indicator,
toolbox-drawer,
auto-suggest,
at-mentions-menu,
uploader-signed-out-tooltip,
search-nav-button,
whale-quicksearch,
bot-banner,
condensed-tos-disclaimer,
hallucination-disclaimer,
freemium-rag-disclaimer,
freemium-file-upload-near-quota-disclaimer,
freemium-file-upload-quota-exceeded-disclaimer,
sensitive-memories-banner,
response-container-header,
message-actions,
copy-button,
thumb-up-button,
thumb-down-button,
tts-control,
regenerate-button,
conversation-action-menu,
conversation-actions-icon,
button.action-button,
button.main-menu-button,
deepl-input-controller,
.glasp-extension-toaster,
#extension-mmplj,
#glasp-extension-toast-container,
.glasp-ui-wrapper,
#naver_dic-window,
.gb_T,
.cdk-describedby-message-container,
.cdk-live-announcer-element,
audio#naver_dic_audio_controller {
  display: none !important;
}

chat-app,
main.chat-app,
bard-sidenav-container,
bard-sidenav-content,
chat-window,
chat-window-content,
.chat-history-scroll-container,
infinite-scroller.chat-history {
  max-width: 980px !important;
  width: 100% !important;
  margin-left: auto !important;
  margin-right: auto !important;
}

body {
  overflow-x: hidden;
}`

// mathJaxConfig restores TeX rendering for formulas the static export can
// no longer typeset itself.
const mathJaxConfig = `
window.MathJax = {
  tex: {
    inlineMath: [['$', '$'], ['\\(', '\\)']],
    displayMath: [['$$', '$$'], ['\\[', '\\]']]
  },
  options: {
    skipHtmlTags: ['script', 'noscript', 'style', 'textarea', 'pre', 'code']
  }
};`
